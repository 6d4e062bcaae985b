package paradox

import "testing"

func TestParseFamilyExtractsReferences(t *testing.T) {
	text := "ORDERS.DB\x00ORDERS.PX\x00ORDERS.MB\x00 X01.X01 secondary\x00"
	fam := ParseFamily([]byte(text))
	if len(fam.References) != 4 {
		t.Fatalf("got %d references, want 4: %+v", len(fam.References), fam.References)
	}
	if fam.References[0].Name != "ORDERS.DB" || fam.References[0].Kind != FamilyKindTable {
		t.Errorf("ref 0: %+v", fam.References[0])
	}
	if fam.References[1].Kind != FamilyKindPrimaryIndex {
		t.Errorf("ref 1: %+v", fam.References[1])
	}
	if fam.References[2].Kind != FamilyKindMemo {
		t.Errorf("ref 2: %+v", fam.References[2])
	}
	if fam.References[3].Kind != FamilyKindSecondaryIndex {
		t.Errorf("ref 3: %+v", fam.References[3])
	}
}

func TestParseFamilyDeduplicatesCaseInsensitively(t *testing.T) {
	fam := ParseFamily([]byte("ORDERS.DB\x00orders.db\x00"))
	if len(fam.References) != 1 {
		t.Fatalf("got %d references, want 1 after dedup: %+v", len(fam.References), fam.References)
	}
}

func TestParseFamilyNeverFails(t *testing.T) {
	fam := ParseFamily([]byte{0xFF, 0xFE, 0x01, 0x02})
	if fam == nil {
		t.Fatal("ParseFamily must never return nil")
	}
	if len(fam.References) != 0 {
		t.Errorf("got %d references from garbage bytes, want 0", len(fam.References))
	}
}

func TestClassifyFamilyReference(t *testing.T) {
	cases := map[string]FamilyReferenceKind{
		"T.DB":  FamilyKindTable,
		"T.PX":  FamilyKindPrimaryIndex,
		"T.MB":  FamilyKindMemo,
		"T.VAL": FamilyKindValidity,
		"T.QBE": FamilyKindQuery,
		"T.TV":  FamilyKindTableView,
		"T.Y01": FamilyKindSecondaryIndex,
		"T.BMP": FamilyKindImage,
		"T.ZZZ": FamilyKindOther,
	}
	for name, want := range cases {
		if got := classifyFamilyReference(name); got != want {
			t.Errorf("classifyFamilyReference(%q): got %v, want %v", name, got, want)
		}
	}
}
