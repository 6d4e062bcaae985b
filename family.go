package paradox

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FamilyReferenceKind classifies one filename token found in a .FAM
// manifest by its extension.
type FamilyReferenceKind int

const (
	FamilyKindOther FamilyReferenceKind = iota
	FamilyKindTable
	FamilyKindPrimaryIndex
	FamilyKindSecondaryIndex
	FamilyKindMemo
	FamilyKindValidity
	FamilyKindQuery
	FamilyKindTableView
	FamilyKindReport
	FamilyKindScript
	FamilyKindFamily
	FamilyKindImage
)

func (k FamilyReferenceKind) String() string {
	switch k {
	case FamilyKindTable:
		return "Table"
	case FamilyKindPrimaryIndex:
		return "PrimaryIndex"
	case FamilyKindSecondaryIndex:
		return "SecondaryIndex"
	case FamilyKindMemo:
		return "Memo"
	case FamilyKindValidity:
		return "Validity"
	case FamilyKindQuery:
		return "Query"
	case FamilyKindTableView:
		return "TableView"
	case FamilyKindReport:
		return "Report"
	case FamilyKindScript:
		return "Script"
	case FamilyKindFamily:
		return "Family"
	case FamilyKindImage:
		return "Image"
	default:
		return "Other"
	}
}

// FamilyReference is one filename token extracted from a .FAM manifest.
type FamilyReference struct {
	Name       string
	Kind       FamilyReferenceKind
	LineNumber int
	Context    string
}

// Family is a fully parsed .FAM manifest: a deduplicated list of every
// auxiliary file referenced, in order of first appearance.
type Family struct {
	References []FamilyReference
}

var familyTokenPattern = regexp.MustCompile(`(?i)[A-Z0-9_\-]+\.[A-Z0-9]{1,4}`)

var secondaryIndexExtPattern = regexp.MustCompile(`(?i)^[XY][0-9A-Z]{2}$`)

// ParseFamily extracts filename tokens from a .FAM manifest. It never
// fails: unreadable bytes become spaces and the reference list may end
// up empty.
func ParseFamily(data []byte) *Family {
	cleaned := make([]byte, len(data))
	for i, b := range data {
		switch {
		case b == 0x00:
			cleaned[i] = '\n'
		case isFamilyPrintable(b):
			cleaned[i] = b
		default:
			cleaned[i] = 0x20
		}
	}
	text := RecoverString(cleaned)
	lines := strings.Split(text, "\n")

	seen := make(map[string]bool)
	var refs []FamilyReference
	for i, line := range lines {
		for _, m := range familyTokenPattern.FindAllString(line, -1) {
			upper := strings.ToUpper(m)
			if seen[upper] {
				continue
			}
			seen[upper] = true
			refs = append(refs, FamilyReference{
				Name:       m,
				Kind:       classifyFamilyReference(m),
				LineNumber: i + 1,
				Context:    strings.TrimSpace(line),
			})
		}
	}
	return &Family{References: refs}
}

func isFamilyPrintable(b byte) bool {
	switch b {
	case 0x09, 0x0A, 0x0D, 0x20:
		return true
	}
	if b >= 0x21 && b <= 0x7E {
		return true
	}
	return b >= 0xA0
}

func classifyFamilyReference(name string) FamilyReferenceKind {
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "DB":
		return FamilyKindTable
	case "PX":
		return FamilyKindPrimaryIndex
	case "MB":
		return FamilyKindMemo
	case "VAL":
		return FamilyKindValidity
	case "QBE":
		return FamilyKindQuery
	case "TV":
		return FamilyKindTableView
	case "RSL":
		return FamilyKindReport
	case "SSL", "SDL":
		return FamilyKindScript
	case "FAM":
		return FamilyKindFamily
	case "BMP", "PNG", "GIF", "JPG", "JPEG":
		return FamilyKindImage
	}
	if secondaryIndexExtPattern.MatchString(ext) {
		return FamilyKindSecondaryIndex
	}
	return FamilyKindOther
}
