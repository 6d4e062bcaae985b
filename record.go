package paradox

import "fmt"

// Encoding selects the code page used to decode text fields. The zero
// value is the Windows-1252 default.
type Encoding struct {
	CodePage uint16
}

// DefaultEncoding is the Windows-1252 default used throughout this
// decoder.
func DefaultEncoding() Encoding { return Encoding{CodePage: 1252} }

func (e Encoding) String() string {
	switch e.CodePage {
	case 0, 1252:
		return "Windows-1252"
	default:
		return fmt.Sprintf("cp%d", e.CodePage)
	}
}

func (e Encoding) decodeText(data []byte) string {
	if e.CodePage == 0 || e.CodePage == 1252 {
		return RecoverString(data)
	}
	return RecoverStringWithCodePage(data, e.CodePage)
}

func (e Encoding) decodeAlpha(data []byte) string {
	if e.CodePage == 0 || e.CodePage == 1252 {
		return RecoverAlpha(data)
	}
	return RecoverStringWithCodePage(trimAlphaPadding(data), e.CodePage)
}

// extractDataRows walks the data area of a table, slicing fixed-size
// record slots out of each block and skipping all-zero tombstones. It
// stops once the header's declared row count has been emitted (when
// non-zero) or the data area is exhausted.
func extractDataRows(data []byte, header *TableHeader) [][]byte {
	blockSize := header.BlockSize()
	recordSize := int(header.RecordSize)
	if blockSize <= 6 || recordSize <= 0 {
		return nil
	}

	var rows [][]byte
	target := int(header.RowCount)

	start := int(header.HeaderLengthInBytes)
	for blockStart := start; blockStart < len(data); blockStart += blockSize {
		blockEnd := blockStart + blockSize
		if blockEnd > len(data) {
			blockEnd = len(data)
		}
		block := data[blockStart:blockEnd]
		if len(block) <= 6 {
			break
		}
		slots := block[6:]
		slotCount := len(slots) / recordSize
		for i := 0; i < slotCount; i++ {
			if target > 0 && len(rows) >= target {
				return rows
			}
			rec := slots[i*recordSize : (i+1)*recordSize]
			if isAllZero(rec) {
				continue
			}
			rows = append(rows, rec)
		}
		if target > 0 && len(rows) >= target {
			return rows
		}
	}
	return rows
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// splitRecord slices a raw row into one byte slice per field descriptor,
// in declaration order.
func splitRecord(raw []byte, descriptors []FieldDescriptor) [][]byte {
	parts := make([][]byte, len(descriptors))
	pos := 0
	for i, d := range descriptors {
		end := pos + d.LengthBytes
		if end > len(raw) {
			end = len(raw)
		}
		if pos > len(raw) {
			pos = len(raw)
		}
		parts[i] = raw[pos:end]
		pos = end
	}
	return parts
}

// decodeFieldValue dispatches a field's raw bytes to the decoder matching
// its type code, resolving blob pointers through blobs when non-nil.
func decodeFieldValue(desc FieldDescriptor, raw []byte, blobs *BlobStore, encoding Encoding) Value {
	if len(raw) == 0 {
		return NullValue()
	}

	switch desc.TypeCode {
	case FieldTypeAlpha:
		return TextValue(encoding.decodeAlpha(raw))
	case FieldTypeDate:
		if t, null := DecodeDate(raw); !null {
			return DateValue(t)
		}
		return NullValue()
	case FieldTypeShort:
		if v, null := DecodeShort(raw); !null {
			return IntegerValue(int64(v))
		}
		return IntegerValue(0)
	case FieldTypeLong, FieldTypeAutoInc:
		if v, null := DecodeLong(raw); !null {
			return IntegerValue(int64(v))
		}
		return IntegerValue(0)
	case FieldTypeCurrency, FieldTypeNumber:
		if v, null := DecodeNumber(raw); !null {
			return DoubleValue(v)
		}
		return NullValue()
	case FieldTypeLogical1, FieldTypeLogical2:
		if v, null := DecodeLogical(raw[0]); !null {
			return BoolValue(v)
		}
		return NullValue()
	case FieldTypeMemoFormatted, FieldTypeMemo, FieldTypeMemoVariant:
		return resolveMemoField(raw, blobs, encoding)
	case FieldTypeBinary, FieldTypeOLE:
		return resolveBinaryField(raw, blobs)
	case FieldTypeGraphic:
		return resolveGraphicField(raw, blobs)
	case FieldTypeTime:
		if d, null := DecodeTime(raw); !null {
			return TimeValue(d)
		}
		return NullValue()
	case FieldTypeTimestamp:
		if t, null := DecodeTimestamp(raw); !null {
			return TimestampValue(t)
		}
		return NullValue()
	case FieldTypeBCD:
		if d, null := DecodeBCD(raw, desc.LengthBytes); !null {
			return DecimalValue(d)
		}
		return NullValue()
	case FieldTypeBytes:
		return BytesValue(append([]byte(nil), raw...))
	default:
		return decodeUnknownField(raw)
	}
}

// decodeUnknownField heuristically emits text when every byte is NUL or
// printable, otherwise raw bytes.
func decodeUnknownField(raw []byte) Value {
	printable := true
	for _, b := range raw {
		if b != 0x00 && b < 0x20 {
			printable = false
			break
		}
	}
	if printable {
		return TextValue(RecoverString(raw))
	}
	return RawValue(append([]byte(nil), raw...))
}
