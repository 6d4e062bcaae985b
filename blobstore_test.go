package paradox

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestParseBlobPointerInline(t *testing.T) {
	field := make([]byte, 10) // offset_raw all zero => inline
	ptr := parseBlobPointer(field)
	if ptr.offsetRaw != 0 {
		t.Errorf("offsetRaw: got %d, want 0", ptr.offsetRaw)
	}
}

func TestParseBlobPointerWithLeader(t *testing.T) {
	field := make([]byte, 16)
	copy(field[0:6], []byte("leadr1"))
	binary.LittleEndian.PutUint32(field[6:10], 0x00001200)
	ptr := parseBlobPointer(field)
	if string(ptr.leader) != "leadr1" {
		t.Errorf("leader: got %q", ptr.leader)
	}
	if ptr.index() != 0x00 {
		t.Errorf("index: got %#x, want 0", ptr.index())
	}
	if ptr.blockOffset() != 0x1200 {
		t.Errorf("blockOffset: got %#x, want 0x1200", ptr.blockOffset())
	}
}

func TestResolveInlineFieldWithNilStore(t *testing.T) {
	var bs *BlobStore
	payload, leader, resolved := bs.Resolve(make([]byte, 10))
	if !resolved {
		t.Error("inline pointer must resolve even with a nil *BlobStore")
	}
	if len(payload) != 0 || len(leader) != 0 {
		t.Errorf("expected empty payload/leader for a zeroed inline field, got %v/%v", payload, leader)
	}
}

func TestResolveFromMBSingleBlob(t *testing.T) {
	mb := make([]byte, 4096)
	mb[0] = 0x02
	binary.LittleEndian.PutUint16(mb[1:3], 1) // chunk_count=1 => block length 0x1000
	binary.LittleEndian.PutUint32(mb[3:7], 5) // blob_length=5
	copy(mb[9:14], []byte("hello"))

	field := make([]byte, 10)
	field[0] = 0xFF // index byte must be 0xFF for a single blob
	binary.LittleEndian.PutUint32(field[4:8], 5)
	binary.LittleEndian.PutUint16(field[8:10], 1)

	payload, ok := resolveFromMB(mb, parseBlobPointer(field))
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if string(payload) != "hello" {
		t.Errorf("payload: got %q, want hello", payload)
	}
}

func TestNewBlobStoreMatchesByTableStem(t *testing.T) {
	dir := t.TempDir()
	mbPath := filepath.Join(dir, "ORDERS.MB")
	if err := os.WriteFile(mbPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "OTHER.MB")
	if err := os.WriteFile(other, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	bs, err := NewBlobStore(filepath.Join(dir, "ORDERS.DB"), "ORDERS.DB")
	if err != nil {
		t.Fatal(err)
	}
	defer bs.Close()
	if len(bs.candidates) != 1 || bs.candidates[0] != mbPath {
		t.Errorf("candidates: got %v, want [%s]", bs.candidates, mbPath)
	}
}

func TestNewBlobStoreFallsBackToAllMBFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.MB")
	b := filepath.Join(dir, "B.MB")
	os.WriteFile(a, []byte("x"), 0o644)
	os.WriteFile(b, []byte("y"), 0o644)

	bs, err := NewBlobStore(filepath.Join(dir, "NOMATCH.DB"), "NOMATCH")
	if err != nil {
		t.Fatal(err)
	}
	defer bs.Close()
	if len(bs.candidates) != 2 {
		t.Errorf("candidates: got %v, want 2 entries", bs.candidates)
	}
}

func TestCleanCandidateStem(t *testing.T) {
	if got := cleanCandidateStem("ORDERS (2)"); got != "ORDERS" {
		t.Errorf("got %q, want ORDERS", got)
	}
	if got := cleanCandidateStem("Copy of ORDERS"); got != "ORDERS" {
		t.Errorf("got %q, want ORDERS", got)
	}
}
