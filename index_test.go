package paradox

import (
	"encoding/binary"
	"testing"
)

func buildIndexFileBytes() []byte {
	const headerLength = 2048
	const blockSize = 1024
	const recordLength = 12 // 6-byte key + 6-byte tail

	header := make([]byte, headerLength)
	binary.LittleEndian.PutUint16(header[0x00:], recordLength)
	binary.LittleEndian.PutUint16(header[0x02:], headerLength)
	header[0x04] = FileTypePrimaryIndex
	header[0x05] = 1 // block_size_code => blockSize 1024
	binary.LittleEndian.PutUint32(header[0x06:], 2)
	binary.LittleEndian.PutUint16(header[0x0A:], 1)
	binary.LittleEndian.PutUint16(header[0x0C:], 1)
	binary.LittleEndian.PutUint16(header[0x0E:], 1)
	binary.LittleEndian.PutUint16(header[0x10:], 1)
	binary.LittleEndian.PutUint16(header[0x1E:], 1)
	header[0x20] = 0
	header[0x21] = 1

	block := make([]byte, blockSize)
	binary.LittleEndian.PutUint16(block[0:2], 0)  // next_block
	binary.LittleEndian.PutUint16(block[2:4], 0)  // prev_block
	binary.LittleEndian.PutUint16(block[4:6], 12) // last_offset (signed, positive)

	zeroTail := encodeSignedForTest(0, 2)
	copy(block[6:12], []byte("AAAAAA"))
	copy(block[12:14], zeroTail)
	copy(block[14:16], zeroTail)
	copy(block[16:18], zeroTail)
	copy(block[18:24], []byte("BBBBBB"))
	copy(block[24:26], zeroTail)
	copy(block[26:28], zeroTail)
	copy(block[28:30], zeroTail)

	return append(header, block...)
}

func TestParseIndexHeaderAndBlock(t *testing.T) {
	idx, err := ParseIndex(buildIndexFileBytes(), IndexKindPrimary)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Kind != IndexKindPrimary {
		t.Errorf("Kind: got %v, want primary", idx.Kind)
	}
	if idx.Header.RecordLength != 12 || idx.Header.BlockSizeCode != 1 {
		t.Errorf("header: %+v", idx.Header)
	}
	if len(idx.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(idx.Blocks))
	}
	block := idx.Blocks[0]
	if block.RecordCount != 2 {
		t.Errorf("RecordCount: got %d, want 2", block.RecordCount)
	}
	if len(block.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(block.Records))
	}
	if string(block.Records[0].KeyBytes) != "AAAAAA" {
		t.Errorf("record 0 key: got %q", block.Records[0].KeyBytes)
	}
	if block.Records[0].ChildBlock != 0 {
		t.Errorf("ChildBlock: got %d, want 0", block.Records[0].ChildBlock)
	}
	if idx.TotalBlocksReported != 1 {
		t.Errorf("TotalBlocksReported: got %d, want 1", idx.TotalBlocksReported)
	}
}

func TestParseIndexTooSmall(t *testing.T) {
	if _, err := ParseIndex(make([]byte, 100), IndexKindPrimary); err == nil {
		t.Error("expected TooSmallError")
	}
}

func TestIndexRecordKeyHex(t *testing.T) {
	r := IndexRecord{KeyBytes: []byte{0xDE, 0xAD}}
	if r.KeyHex() != "DE AD" {
		t.Errorf("KeyHex: got %q, want DE AD", r.KeyHex())
	}
}

func TestParseSecondaryIndexData(t *testing.T) {
	fieldSection := buildFieldSection(
		[]byte{FieldTypeAlpha, FieldTypeAlpha},
		[]byte{4, 6},
		"MOCK.X01",
		[]string{"CODE", "DESC"},
		"",
	)
	const fieldInfoOffset = 0x78

	fieldNumbers := make([]byte, 4)
	binary.LittleEndian.PutUint16(fieldNumbers[0:2], 0)
	binary.LittleEndian.PutUint16(fieldNumbers[2:4], 1)
	trailer := append(fieldNumbers, []byte("ASC\x00IDX1\x00")...)

	headerLength := uint16(fieldInfoOffset + len(fieldSection) + len(trailer))
	header := buildHeaderBytes(10, headerLength, FileTypeNonIncSecondaryIndex, 2, 2, 0, 0x0C, 1252)

	data := append([]byte(nil), header[:fieldInfoOffset]...)
	data = append(data, fieldSection...)
	data = append(data, trailer...)

	block := make([]byte, 1024)
	copy(block[6:16], []byte("A001Widget"))
	copy(block[16:26], []byte("A002Flange"))
	data = append(data, block...)

	sec, err := ParseSecondaryIndexData(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(sec.FieldNumbers) != 2 || sec.FieldNumbers[0] != 0 || sec.FieldNumbers[1] != 1 {
		t.Errorf("FieldNumbers: %v", sec.FieldNumbers)
	}
	if sec.SortOrder != "ASC" {
		t.Errorf("SortOrder: got %q, want ASC", sec.SortOrder)
	}
	if sec.IndexLabel != "IDX1" {
		t.Errorf("IndexLabel: got %q, want IDX1", sec.IndexLabel)
	}
	if len(sec.Table.Records) != 2 {
		t.Errorf("got %d records, want 2", len(sec.Table.Records))
	}
}
