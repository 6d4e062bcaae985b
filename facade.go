package paradox

import (
	"os"
	"path/filepath"
	"strings"
)

// Format is the inferred (or explicitly requested) shape of a Paradox
// artifact.
type Format int

const (
	FormatUnknown Format = iota
	FormatTable
	FormatQuery
	FormatReport
	FormatTableView
	FormatFamily
	FormatPrimaryIndex
	FormatSecondaryIndexData
	FormatSecondaryIndex
	FormatScript
	FormatSpreadsheet
	FormatSnapshot
)

func (f Format) String() string {
	switch f {
	case FormatTable:
		return "Table"
	case FormatQuery:
		return "Query"
	case FormatReport:
		return "Report"
	case FormatTableView:
		return "TableView"
	case FormatFamily:
		return "Family"
	case FormatPrimaryIndex:
		return "PrimaryIndex"
	case FormatSecondaryIndexData:
		return "SecondaryIndexData"
	case FormatSecondaryIndex:
		return "SecondaryIndex"
	case FormatScript:
		return "Script"
	case FormatSpreadsheet:
		return "Spreadsheet"
	case FormatSnapshot:
		return "Snapshot"
	default:
		return "Unknown"
	}
}

// InferFormat maps path's lowercased extension to a Format.
func InferFormat(path string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch {
	case ext == "db":
		return FormatTable
	case ext == "qbe":
		return FormatQuery
	case ext == "rsl":
		return FormatReport
	case ext == "tv":
		return FormatTableView
	case ext == "fam":
		return FormatFamily
	case ext == "px":
		return FormatPrimaryIndex
	case ext == "xls" || ext == "xlsx":
		return FormatSpreadsheet
	case strings.HasPrefix(ext, "x"):
		return FormatSecondaryIndexData
	case strings.HasPrefix(ext, "y"):
		return FormatSecondaryIndex
	case ext == "ssl" || ext == "sdl":
		return FormatScript
	case ext == "bak" || ext == "tmp":
		return FormatSnapshot
	default:
		return FormatUnknown
	}
}

// Details is the tagged union of every shape a decoded File can carry.
type Details interface {
	isDetails()
}

// TableDetails wraps a decoded .DB/.Xnn table.
type TableDetails struct{ Table *Table }

func (TableDetails) isDetails() {}

// QueryDetails wraps a .QBE file's raw text; the QBE grammar itself is
// never evaluated.
type QueryDetails struct {
	Text         string
	EncodingUsed Encoding
}

func (QueryDetails) isDetails() {}

// TableViewDetails wraps a decoded .TV container.
type TableViewDetails struct{ TableView *TableView }

func (TableViewDetails) isDetails() {}

// FamilyDetails wraps a decoded .FAM manifest.
type FamilyDetails struct{ Family *Family }

func (FamilyDetails) isDetails() {}

// IndexDetails wraps a decoded .PX/.Ynn B-tree.
type IndexDetails struct{ Index *Index }

func (IndexDetails) isDetails() {}

// SecondaryIndexDataDetails wraps a decoded .Xnn file.
type SecondaryIndexDataDetails struct{ Data *SecondaryIndexData }

func (SecondaryIndexDataDetails) isDetails() {}

// BinaryDetails wraps the generic fallback shape for formats this module
// does not specifically decode.
type BinaryDetails struct{ Binary *GenericBinary }

func (BinaryDetails) isDetails() {}

// File is the result of a successful Load/LoadBytes call.
type File struct {
	Path    string
	Format  Format
	Size    int64
	Details Details
}

// Load reads path in full, infers its Format from the extension, and
// dispatches to the matching decoder.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Cause: err}
	}
	format := InferFormat(path)
	file, err := decodeBytes(data, format, path)
	if err != nil {
		return nil, err
	}
	file.Path = path
	return file, nil
}

// LoadBytes decodes data as the given format, skipping extension
// inference. Table decoding from raw bytes has no sibling .MB file, so
// Memo/Binary/Graphic fields fall back to their leader bytes or null.
func LoadBytes(data []byte, format Format) (*File, error) {
	return decodeBytes(data, format, "")
}

func decodeBytes(data []byte, format Format, path string) (*File, error) {
	switch format {
	case FormatTable, FormatSecondaryIndexData:
		return decodeTableFormat(data, format, path)
	case FormatQuery:
		return &File{Format: format, Size: int64(len(data)), Details: QueryDetails{
			Text:         RecoverString(data),
			EncodingUsed: DefaultEncoding(),
		}}, nil
	case FormatTableView:
		tv, err := ParseTableView(data)
		if err != nil {
			return nil, err
		}
		return &File{Format: format, Size: int64(len(data)), Details: TableViewDetails{TableView: tv}}, nil
	case FormatFamily:
		fam := ParseFamily(data)
		return &File{Format: format, Size: int64(len(data)), Details: FamilyDetails{Family: fam}}, nil
	case FormatPrimaryIndex, FormatSecondaryIndex:
		kind := IndexKindPrimary
		if format == FormatSecondaryIndex {
			kind = IndexKindSecondary
		}
		idx, err := ParseIndex(data, kind)
		if err != nil {
			return nil, err
		}
		return &File{Format: format, Size: int64(len(data)), Details: IndexDetails{Index: idx}}, nil
	case FormatReport, FormatScript, FormatSpreadsheet, FormatSnapshot, FormatUnknown:
		return &File{Format: format, Size: int64(len(data)), Details: BinaryDetails{Binary: NewGenericBinary(data)}}, nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

func decodeTableFormat(data []byte, format Format, path string) (*File, error) {
	if format == FormatSecondaryIndexData {
		sec, err := ParseSecondaryIndexData(data)
		if err != nil {
			return nil, err
		}
		return &File{Format: format, Size: int64(len(data)), Details: SecondaryIndexDataDetails{Data: sec}}, nil
	}

	var table *Table
	var err error
	if path != "" {
		table, err = LoadTableFile(path, data)
	} else {
		table, err = LoadTableBytes(data)
	}
	if err != nil {
		return nil, err
	}
	return &File{Format: format, Size: int64(len(data)), Details: TableDetails{Table: table}}, nil
}

// GenericBinary is the fallback shape for formats this module does not
// specifically decode: a size, a leading preview, and on-demand hex dump
// and ASCII-segment detection.
type GenericBinary struct {
	data    []byte
	Size    int64
	Preview []byte
}

const genericPreviewLength = 64

// NewGenericBinary wraps data as a GenericBinary, capturing a short
// leading preview.
func NewGenericBinary(data []byte) *GenericBinary {
	n := genericPreviewLength
	if n > len(data) {
		n = len(data)
	}
	return &GenericBinary{
		data:    data,
		Size:    int64(len(data)),
		Preview: append([]byte(nil), data[:n]...),
	}
}

// HexDump renders length bytes starting at offset as space-separated
// uppercase hex.
func (g *GenericBinary) HexDump(offset, length int) string {
	if offset < 0 || offset > len(g.data) {
		return ""
	}
	end := offset + length
	if end > len(g.data) {
		end = len(g.data)
	}
	return formatHexBytes(g.data[offset:end])
}

// ASCIISegments returns every run of printable-ASCII bytes at least
// minLength long.
func (g *GenericBinary) ASCIISegments(minLength int) []string {
	var segments []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minLength {
			segments = append(segments, string(g.data[start:end]))
		}
		start = -1
	}
	for i, b := range g.data {
		if b >= 0x20 && b < 0x7F {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(g.data))
	return segments
}
