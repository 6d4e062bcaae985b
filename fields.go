package paradox

import (
	"fmt"
	"unicode"
)

// Field type codes, as they appear in a field descriptor's type byte.
const (
	FieldTypeAlpha         byte = 0x01
	FieldTypeDate          byte = 0x02
	FieldTypeShort         byte = 0x03
	FieldTypeLong          byte = 0x04
	FieldTypeCurrency      byte = 0x05
	FieldTypeNumber        byte = 0x06
	FieldTypeLogical1      byte = 0x07
	FieldTypeMemoFormatted byte = 0x08
	FieldTypeLogical2      byte = 0x09
	FieldTypeMemo          byte = 0x0C
	FieldTypeBinary        byte = 0x0D
	FieldTypeMemoVariant   byte = 0x0E
	FieldTypeOLE           byte = 0x0F
	FieldTypeGraphic       byte = 0x10
	FieldTypeTime          byte = 0x14
	FieldTypeTimestamp     byte = 0x15
	FieldTypeAutoInc       byte = 0x16
	FieldTypeBCD           byte = 0x17
	FieldTypeBytes         byte = 0x18
)

// FieldDescriptor names and sizes one column of a Paradox table.
type FieldDescriptor struct {
	Index       int
	LengthBytes int
	TypeCode    byte
	Name        string
}

// TypeName returns a human-readable name for the descriptor's type code.
func (f FieldDescriptor) TypeName() string {
	switch f.TypeCode {
	case FieldTypeAlpha:
		return "Alpha"
	case FieldTypeDate:
		return "Date"
	case FieldTypeShort:
		return "Short"
	case FieldTypeLong:
		return "Long"
	case FieldTypeCurrency:
		return "Currency"
	case FieldTypeNumber:
		return "Number"
	case FieldTypeLogical1, FieldTypeLogical2:
		return "Logical"
	case FieldTypeMemoFormatted, FieldTypeMemo, FieldTypeMemoVariant:
		return "Memo"
	case FieldTypeBinary, FieldTypeOLE:
		return "Binary"
	case FieldTypeGraphic:
		return "Graphic"
	case FieldTypeTime:
		return "Time"
	case FieldTypeTimestamp:
		return "Timestamp"
	case FieldTypeAutoInc:
		return "AutoInc"
	case FieldTypeBCD:
		return "BCD"
	case FieldTypeBytes:
		return "Bytes"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", f.TypeCode)
	}
}

// IsBlobField reports whether values of this type are resolved through the
// table's BlobStore rather than decoded in place.
func (f FieldDescriptor) IsBlobField() bool {
	switch f.TypeCode {
	case FieldTypeMemoFormatted, FieldTypeMemo, FieldTypeMemoVariant, FieldTypeBinary, FieldTypeOLE, FieldTypeGraphic:
		return true
	default:
		return false
	}
}

// DisplayName returns Name, or a positional fallback "Field {n}" (1-based)
// when Name is empty or whitespace-only.
func (f FieldDescriptor) DisplayName() string {
	allBlank := true
	for _, r := range f.Name {
		if !unicode.IsSpace(r) {
			allBlank = false
			break
		}
	}
	if allBlank {
		return fmt.Sprintf("Field %d", f.Index+1)
	}
	return f.Name
}

// parsedFieldInfo is the full result of reading the field-info section of
// a table header: descriptors, table name, and sort-order label.
type parsedFieldInfo struct {
	Descriptors     []FieldDescriptor
	TableName       string
	SortOrder       string
	EndOfFieldNames int
}

// ParseFieldDescriptors reads field-type/length pairs starting at offset,
// skips the pointer and field-number sections, then reads the table name
// and each field's name in declaration order.
func ParseFieldDescriptors(data []byte, offset int, fieldCount int) (*parsedFieldInfo, error) {
	if offset < 0 || offset+fieldCount*2 > len(data) {
		return nil, &MissingFieldDescriptorsError{FieldInfoOffset: offset, HeaderLength: len(data)}
	}

	descriptors := make([]FieldDescriptor, fieldCount)
	pos := offset
	for i := 0; i < fieldCount; i++ {
		typeCode := data[pos]
		length := int(data[pos+1])
		descriptors[i] = FieldDescriptor{Index: i, LengthBytes: length, TypeCode: typeCode}
		pos += 2
	}

	// Opaque pointer section: 4 + 4*fieldCount bytes.
	pos += 4 + 4*fieldCount
	// Opaque field-number section: 2*fieldCount bytes.
	pos += 2 * fieldCount

	if pos > len(data) {
		return &parsedFieldInfo{Descriptors: descriptors}, nil
	}

	tableNameBytes, consumed := readNonZeroRun(data[pos:])
	tableName := RecoverString(tableNameBytes)
	pos += consumed

	for i := 0; i < fieldCount && pos <= len(data); i++ {
		nameBytes, n := ReadNULTerminated(data[pos:])
		descriptors[i].Name = RecoverString(nameBytes)
		pos += n
	}
	endOfFieldNames := pos

	var sortOrder string
	if pos < len(data) {
		sortBytes, _ := readNonZeroRun(data[pos:])
		sortOrder = RecoverString(sortBytes)
	}

	return &parsedFieldInfo{
		Descriptors:     descriptors,
		TableName:       tableName,
		SortOrder:       sortOrder,
		EndOfFieldNames: endOfFieldNames,
	}, nil
}

// readNonZeroRun returns the leading run of non-zero bytes in data, and
// the number of bytes consumed including the trailing zero bytes that
// terminate the run (capped at len(data)).
func readNonZeroRun(data []byte) (run []byte, consumed int) {
	end := 0
	for end < len(data) && data[end] != 0x00 {
		end++
	}
	run = data[:end]
	consumed = end
	for consumed < len(data) && data[consumed] == 0x00 {
		consumed++
	}
	return run, consumed
}
