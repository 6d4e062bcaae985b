package paradox

import (
	"encoding/binary"
	"testing"
)

func buildHeaderBytes(recordSize, headerLength uint16, fileType byte, rowCount uint32, fieldCount, keyFieldCount uint16, fileVersionID byte, codePage uint16) []byte {
	data := make([]byte, 128)
	binary.LittleEndian.PutUint16(data[0x00:], recordSize)
	binary.LittleEndian.PutUint16(data[0x02:], headerLength)
	data[0x04] = fileType
	data[0x05] = 1 // max_table_size_factor
	binary.LittleEndian.PutUint32(data[0x06:], rowCount)
	binary.LittleEndian.PutUint16(data[0x21:], fieldCount)
	binary.LittleEndian.PutUint16(data[0x23:], keyFieldCount)
	data[0x39] = fileVersionID
	binary.LittleEndian.PutUint16(data[0x6A:], codePage)
	return data
}

func TestParseTableHeaderBasicFields(t *testing.T) {
	data := buildHeaderBytes(10, 0x78, FileTypeIndexedTable, 2, 2, 0, 0x09, 1252)
	h, err := ParseTableHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.RecordSize != 10 || h.RowCount != 2 || h.FieldCount != 2 || h.CodePageIdentifier != 1252 {
		t.Errorf("unexpected header: %+v", h)
	}
	if h.NormalizedVersion != 40 {
		t.Errorf("NormalizedVersion: got %d, want 40", h.NormalizedVersion)
	}
	if !h.IncludesDataHeader() {
		t.Error("version 0x09 indexed table should include data header")
	}
	if h.FieldInfoOffset() != 0x78 {
		t.Errorf("FieldInfoOffset: got %#x, want 0x78", h.FieldInfoOffset())
	}
}

func TestParseTableHeaderLegacyOffset(t *testing.T) {
	data := buildHeaderBytes(10, 0x58, FileTypeIndexedTable, 1, 1, 0, 0x03, 1252)
	h, err := ParseTableHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.IncludesDataHeader() {
		t.Error("version 0x03 must not include the extended data header")
	}
	if h.FieldInfoOffset() != 0x58 {
		t.Errorf("FieldInfoOffset: got %#x, want 0x58", h.FieldInfoOffset())
	}
}

func TestParseTableHeaderRejectsZeroRecordSize(t *testing.T) {
	data := buildHeaderBytes(0, 0x58, FileTypeIndexedTable, 0, 0, 0, 0x03, 1252)
	if _, err := ParseTableHeader(data); err == nil {
		t.Error("expected InvalidRecordSizeError")
	}
}

func TestParseTableHeaderTooSmall(t *testing.T) {
	if _, err := ParseTableHeader(make([]byte, 100)); err == nil {
		t.Error("expected TooSmallError for a buffer under 128 bytes")
	}
}

func TestBlockSize(t *testing.T) {
	h := &TableHeader{MaxTableSizeFactor: 4}
	if h.BlockSize() != 4096 {
		t.Errorf("BlockSize: got %d, want 4096", h.BlockSize())
	}
}
