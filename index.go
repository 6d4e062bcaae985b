package paradox

import "encoding/binary"

// IndexKind distinguishes a primary (.PX) index from a secondary (.Ynn)
// B-tree index. Both share the same on-disk block layout.
type IndexKind int

const (
	IndexKindPrimary IndexKind = iota
	IndexKindSecondary
)

func (k IndexKind) String() string {
	if k == IndexKindPrimary {
		return "primary"
	}
	return "secondary"
}

// IndexHeader is the fixed metadata parsed from the first 2048 bytes of a
// .PX/.Ynn file.
type IndexHeader struct {
	RecordLength   uint16
	HeaderLength   uint16
	FileType       byte
	BlockSizeCode  byte
	RecordCount    uint32
	BlocksInUse    uint16
	TotalBlocks    uint16
	FirstDataBlock uint16
	LastBlock      uint16
	RootBlock      uint16
	LevelCount     byte
	FieldCount     byte
}

// BlockSize is the size in bytes of one index block.
func (h *IndexHeader) BlockSize() int { return int(h.BlockSizeCode) * 1024 }

// IndexRecord is one key entry within an IndexBlock.
type IndexRecord struct {
	KeyBytes   []byte
	ChildBlock int16
	Statistics int16
	Reserved   int16
}

// KeyHex renders KeyBytes as a space-separated uppercase hex string for
// display.
func (r IndexRecord) KeyHex() string { return formatHexBytes(r.KeyBytes) }

// IndexBlock is one fixed-size block of a B-tree index file.
type IndexBlock struct {
	ID          int // 1-based
	NextBlock   uint16
	PrevBlock   uint16
	RecordCount int
	Records     []IndexRecord
}

// Index is a fully parsed .PX or .Ynn B-tree structure. Parsing is capped
// at the first 64 blocks and the first 12 records per block;
// TotalBlocksReported records how many blocks were actually walked so
// callers know how many were skipped.
type Index struct {
	Header              *IndexHeader
	Kind                IndexKind
	Blocks              []IndexBlock
	TotalBlocksReported int
}

const (
	maxIndexBlocks          = 64
	maxIndexRecordsPerBlock = 12
)

// ParseIndex parses a .PX (kind=IndexKindPrimary) or .Ynn
// (kind=IndexKindSecondary) buffer.
func ParseIndex(data []byte, kind IndexKind) (*Index, error) {
	const minimum = 2048
	if len(data) < minimum {
		return nil, &TooSmallError{Format: "index", Got: len(data), Minimum: minimum}
	}

	header := &IndexHeader{
		RecordLength:   binary.LittleEndian.Uint16(data[0x00:0x02]),
		HeaderLength:   binary.LittleEndian.Uint16(data[0x02:0x04]),
		FileType:       data[0x04],
		BlockSizeCode:  data[0x05],
		RecordCount:    binary.LittleEndian.Uint32(data[0x06:0x0A]),
		BlocksInUse:    binary.LittleEndian.Uint16(data[0x0A:0x0C]),
		TotalBlocks:    binary.LittleEndian.Uint16(data[0x0C:0x0E]),
		FirstDataBlock: binary.LittleEndian.Uint16(data[0x0E:0x10]),
		LastBlock:      binary.LittleEndian.Uint16(data[0x10:0x12]),
		RootBlock:      binary.LittleEndian.Uint16(data[0x1E:0x20]),
		LevelCount:     data[0x20],
		FieldCount:     data[0x21],
	}

	blockSize := header.BlockSize()
	recordLength := int(header.RecordLength)
	if blockSize <= 6 || recordLength <= 6 {
		return &Index{Header: header, Kind: kind}, nil
	}

	var blocks []IndexBlock
	blockStart := int(header.HeaderLength)
	blockID := 1
	for blockStart+blockSize <= len(data) && blockID <= maxIndexBlocks {
		block := data[blockStart : blockStart+blockSize]
		blocks = append(blocks, parseIndexBlock(block, blockID, recordLength))
		blockID++
		blockStart += blockSize
	}

	return &Index{
		Header:              header,
		Kind:                kind,
		Blocks:              blocks,
		TotalBlocksReported: len(blocks),
	}, nil
}

func parseIndexBlock(block []byte, id int, recordLength int) IndexBlock {
	nextBlock := binary.LittleEndian.Uint16(block[0:2])
	prevBlock := binary.LittleEndian.Uint16(block[2:4])
	lastOffset := int16(binary.LittleEndian.Uint16(block[4:6]))

	recordCount := 0
	if lastOffset >= 0 {
		recordCount = int(lastOffset)/recordLength + 1
	}

	keyLength := recordLength - 6
	var records []IndexRecord
	pos := 6
	limit := recordCount
	if limit > maxIndexRecordsPerBlock {
		limit = maxIndexRecordsPerBlock
	}
	for i := 0; i < limit; i++ {
		if pos+recordLength > len(block) {
			break
		}
		rec := block[pos : pos+recordLength]
		key := append([]byte(nil), rec[:keyLength]...)
		child := decodeIndexShort(rec[keyLength : keyLength+2])
		stats := decodeIndexShort(rec[keyLength+2 : keyLength+4])
		reserved := decodeIndexShort(rec[keyLength+4 : keyLength+6])
		records = append(records, IndexRecord{
			KeyBytes:   key,
			ChildBlock: child,
			Statistics: stats,
			Reserved:   reserved,
		})
		pos += recordLength
	}

	return IndexBlock{
		ID:          id,
		NextBlock:   nextBlock,
		PrevBlock:   prevBlock,
		RecordCount: recordCount,
		Records:     records,
	}
}

// decodeIndexShort applies the sign-bit-inversion rule (§4.2) to a 2-byte
// tail field and interprets the result as a signed 16-bit integer.
func decodeIndexShort(buf []byte) int16 {
	v, isNull := decodeSignedInt(buf)
	if isNull {
		return 0
	}
	return int16(v)
}

// SecondaryIndexData is a .Xnn file: a structurally regular table (parsed
// by the same decoder as .DB files) plus trailing header metadata
// pointing back at the base table's columns.
type SecondaryIndexData struct {
	Table        *Table
	FieldNumbers []uint16
	SortOrder    string
	IndexLabel   string
}

// ParseSecondaryIndexData parses a .Xnn buffer: the table body with the
// same header, field-descriptor and data-row decoders decodeTable uses,
// then the field-number array, sort-order string, and index label that
// follow the field names.
func ParseSecondaryIndexData(data []byte) (*SecondaryIndexData, error) {
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
		CodePageIdentifier: header.CodePageIdentifier,
		AutoIncrementSeed:  header.AutoIncrementSeed,
		AutoIncrementValue: header.AutoIncrementValue,
	}
	table.Records = make([]*Record, len(rows))
	for i, raw := range rows {
		table.Records[i] = &Record{raw: raw, table: table}
	}

	fieldCount := int(header.FieldCount)
	pos := info.EndOfFieldNames
	fieldNumbers := make([]uint16, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		if pos+2 > len(data) {
			break
		}
		fieldNumbers = append(fieldNumbers, binary.LittleEndian.Uint16(data[pos:pos+2]))
		pos += 2
	}

	var sortOrder, indexLabel string
	if pos < len(data) {
		b, n := ReadNULTerminated(data[pos:])
		sortOrder = RecoverString(b)
		pos += n
	}
	if pos < len(data) {
		b, _ := ReadNULTerminated(data[pos:])
		indexLabel = RecoverString(b)
	}

	return &SecondaryIndexData{
		Table:        table,
		FieldNumbers: fieldNumbers,
		SortOrder:    sortOrder,
		IndexLabel:   indexLabel,
	}, nil
}
