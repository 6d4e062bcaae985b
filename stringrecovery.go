package paradox

import (
	"unicode/utf8"

	"github.com/axgle/mahonia"
	"golang.org/x/text/encoding/charmap"
)

// RecoverString decodes data by trying Windows-1252 first, then
// ISO-8859-1, then a printable-ASCII/replacement-character fallback.
// Null-terminated reads should slice at the first 0x00 before calling.
func RecoverString(data []byte) string {
	if s, ok := decodeWithoutReplacement(charmap.Windows1252, data); ok {
		return s
	}
	if s, ok := decodeWithoutReplacement(charmap.ISO8859_1, data); ok {
		return s
	}
	return decodeASCIIFallback(data)
}

// RecoverStringWithCodePage mirrors RecoverString but, when cp is a
// non-default Windows-1252 code page, decodes through an explicit mahonia
// decoder for that code page instead of the fixed charmap fallback chain.
// This is the caller-configurable path described in the domain stack: most
// archival Paradox tables carry the Windows-1252 default and never reach
// it.
func RecoverStringWithCodePage(data []byte, cp uint16) string {
	name := codePageName(cp)
	if name == "" {
		return RecoverString(data)
	}
	decoder := mahonia.NewDecoder(name)
	if decoder == nil {
		return RecoverString(data)
	}
	return decoder.ConvertString(string(data))
}

func codePageName(cp uint16) string {
	switch cp {
	case 0, 1252:
		return ""
	case 850:
		return "cp850"
	case 437:
		return "cp437"
	case 936:
		return "gbk"
	case 950:
		return "big5"
	default:
		return ""
	}
}

// decodeWithoutReplacement decodes data through cm and reports ok=false if
// any byte had no defined mapping (surfaced by charmap as RuneError),
// signalling the caller to fall through to the next encoding.
func decodeWithoutReplacement(cm *charmap.Charmap, data []byte) (string, bool) {
	decoded, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if containsReplacement(decoded) {
		return "", false
	}
	return string(decoded), true
}

func containsReplacement(decoded []byte) bool {
	for i := 0; i < len(decoded); {
		r, size := utf8.DecodeRune(decoded[i:])
		if r == utf8.RuneError {
			return true
		}
		i += size
	}
	return false
}

// decodeASCIIFallback maps printable ASCII bytes directly and replaces
// everything else with U+FFFD.
func decodeASCIIFallback(data []byte) string {
	runes := make([]rune, 0, len(data))
	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			runes = append(runes, rune(b))
		} else {
			runes = append(runes, utf8.RuneError)
		}
	}
	return string(runes)
}

// RecoverAlpha decodes an Alpha field's raw bytes: leading NULs and
// trailing NULs and spaces are trimmed (leading spaces are kept), interior
// NULs become spaces, and the result is run through RecoverString.
func RecoverAlpha(data []byte) string {
	trimmed := trimAlphaPadding(data)
	cleaned := make([]byte, len(trimmed))
	for i, b := range trimmed {
		if b == 0x00 {
			cleaned[i] = 0x20
		} else {
			cleaned[i] = b
		}
	}
	return RecoverString(cleaned)
}

func trimAlphaPadding(data []byte) []byte {
	start := 0
	for start < len(data) && (data[start] == 0x00) {
		start++
	}
	end := len(data)
	for end > start && (data[end-1] == 0x00 || data[end-1] == 0x20) {
		end--
	}
	return data[start:end]
}

// ReadNULTerminated returns the bytes up to the first 0x00 in data (or all
// of data if none is found) and the number of bytes consumed including any
// terminator.
func ReadNULTerminated(data []byte) (text []byte, consumed int) {
	for i, b := range data {
		if b == 0x00 {
			return data[:i], i + 1
		}
	}
	return data, len(data)
}
