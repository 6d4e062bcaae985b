package paradox

import "strings"

// Table owns its field descriptors, decoded records, and — when loaded
// from a file path — the BlobStore that resolves Memo/Binary/Graphic
// pointers for those records.
type Table struct {
	Header             *TableHeader
	Fields             []FieldDescriptor
	Records            []*Record
	TableName          string
	SortOrder          string
	CodePageIdentifier uint16
	AutoIncrementSeed  uint32
	AutoIncrementValue uint32

	blobs *BlobStore
}

// Record owns its raw row bytes and a reference to the table that
// produced it, for blob resolution and encoding defaults.
type Record struct {
	raw   []byte
	table *Table
}

// FieldValue pairs a decoded value with the descriptor that produced it.
type FieldValue struct {
	Descriptor FieldDescriptor
	Value      Value
}

// LoadTableFile parses a .DB (or .Xnn, structurally identical) table from
// disk, wiring up a BlobStore against its sibling .MB file if one exists.
func LoadTableFile(path string, data []byte) (*Table, error) {
	table, err := decodeTable(data)
	if err != nil {
		return nil, err
	}
	blobs, err := NewBlobStore(path, table.TableName)
	if err == nil {
		table.blobs = blobs
	}
	return table, nil
}

// LoadTableBytes parses a table from an in-memory buffer with no backing
// file, so Memo/Binary/Graphic fields fall back to their inline leader
// bytes or null.
func LoadTableBytes(data []byte) (*Table, error) {
	return decodeTable(data)
}

func decodeTable(data []byte) (*Table, error) {
	header, err := ParseTableHeader(data)
	if err != nil {
		return nil, err
	}

	info, err := ParseFieldDescriptors(data, header.FieldInfoOffset(), int(header.FieldCount))
	if err != nil {
		return nil, err
	}

	rows := extractDataRows(data, header)

	table := &Table{
		Header:             header,
		Fields:             info.Descriptors,
		TableName:          info.TableName,
		SortOrder:          info.SortOrder,
		CodePageIdentifier: header.CodePageIdentifier,
		AutoIncrementSeed:  header.AutoIncrementSeed,
		AutoIncrementValue: header.AutoIncrementValue,
	}
	table.Records = make([]*Record, len(rows))
	for i, raw := range rows {
		table.Records[i] = &Record{raw: raw, table: table}
	}
	return table, nil
}

// Close releases the table's BlobStore cache, if any.
func (t *Table) Close() {
	if t.blobs != nil {
		t.blobs.Close()
	}
}

// FieldNames returns each field's declared name, in column order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldDisplayNames returns each field's display name — the declared
// name, or "Field {n}" when it is empty or whitespace-only.
func (t *Table) FieldDisplayNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.DisplayName()
	}
	return names
}

// FormattedRecords renders up to sampleCount records (all of them when
// sampleCount <= 0) as rows of formatted strings, one per field.
func (t *Table) FormattedRecords(sampleCount int, encoding Encoding) [][]string {
	n := len(t.Records)
	if sampleCount > 0 && sampleCount < n {
		n = sampleCount
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = t.Records[i].FormattedValues(encoding)
	}
	return out
}

// Values decodes every field of r, in descriptor order.
func (r *Record) Values(encoding Encoding) []FieldValue {
	parts := splitRecord(r.raw, r.table.Fields)
	out := make([]FieldValue, len(r.table.Fields))
	for i, desc := range r.table.Fields {
		out[i] = FieldValue{Descriptor: desc, Value: decodeFieldValue(desc, parts[i], r.table.blobs, encoding)}
	}
	return out
}

// FormattedValues is Values rendered through Value.FormattedString.
func (r *Record) FormattedValues(encoding Encoding) []string {
	values := r.Values(encoding)
	out := make([]string, len(values))
	for i, fv := range values {
		out[i] = fv.Value.FormattedString(nil, nil)
	}
	return out
}

// Value looks up a single field by name, case-insensitively, decoding
// only that field.
func (r *Record) Value(named string, encoding Encoding) (Value, bool) {
	for i, desc := range r.table.Fields {
		if strings.EqualFold(desc.Name, named) {
			parts := splitRecord(r.raw, r.table.Fields)
			return decodeFieldValue(desc, parts[i], r.table.blobs, encoding), true
		}
	}
	return Value{}, false
}

// Raw returns the record's unparsed row bytes.
func (r *Record) Raw() []byte { return r.raw }
