package paradox

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind discriminates the closed sum of decoded Paradox field values.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindInteger
	KindDouble
	KindDecimal
	KindBool
	KindDate
	KindTime
	KindTimestamp
	KindBytes
	KindRaw
	KindImage
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindBytes:
		return "bytes"
	case KindRaw:
		return "raw"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Value is a tagged union over every shape a decoded Paradox field value
// can take. Only the field matching Kind is meaningful.
type Value struct {
	Kind      ValueKind
	Text      string
	Integer   int64
	Double    float64
	Decimal   decimal.Decimal
	Bool      bool
	Date      time.Time
	Time      time.Duration
	Timestamp time.Time
	Bytes     []byte
}

// NullValue returns the null variant.
func NullValue() Value { return Value{Kind: KindNull} }

// TextValue wraps a decoded string.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IntegerValue wraps a signed integer.
func IntegerValue(v int64) Value { return Value{Kind: KindInteger, Integer: v} }

// DoubleValue wraps a float64.
func DoubleValue(v float64) Value { return Value{Kind: KindDouble, Double: v} }

// DecimalValue wraps an arbitrary-precision decimal.
func DecimalValue(v decimal.Decimal) Value { return Value{Kind: KindDecimal, Decimal: v} }

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// DateValue wraps a calendar date.
func DateValue(v time.Time) Value { return Value{Kind: KindDate, Date: v} }

// TimeValue wraps a duration since midnight.
func TimeValue(v time.Duration) Value { return Value{Kind: KindTime, Time: v} }

// TimestampValue wraps an instant.
func TimestampValue(v time.Time) Value { return Value{Kind: KindTimestamp, Timestamp: v} }

// BytesValue wraps a binary/OLE payload.
func BytesValue(v []byte) Value { return Value{Kind: KindBytes, Bytes: v} }

// RawValue wraps bytes of an unrecognized field type.
func RawValue(v []byte) Value { return Value{Kind: KindRaw, Bytes: v} }

// ImageValue wraps a graphic payload.
func ImageValue(v []byte) Value { return Value{Kind: KindImage, Bytes: v} }

// IsNull reports whether this value is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// FormattedString renders a canonical display string for v. dateFormatter
// and timestampFormatter, when non-nil, override the default yyyy-MM-dd /
// yyyy-MM-dd HH:mm:ss UTC renderings.
func (v Value) FormattedString(dateFormatter, timestampFormatter func(time.Time) string) string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindText:
		return v.Text
	case KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case KindDouble:
		return formatDecimalNeutral(v.Double)
	case KindDecimal:
		return formatDecimalValue(v.Decimal)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDate:
		if dateFormatter != nil {
			return dateFormatter(v.Date)
		}
		return v.Date.UTC().Format("2006-01-02")
	case KindTime:
		return formatClock(v.Time)
	case KindTimestamp:
		if timestampFormatter != nil {
			return timestampFormatter(v.Timestamp)
		}
		return v.Timestamp.UTC().Format("2006-01-02 15:04:05")
	case KindBytes, KindRaw:
		return formatHexBytes(v.Bytes)
	case KindImage:
		return "[Image]"
	default:
		return ""
	}
}

func formatDecimalNeutral(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func formatDecimalValue(d decimal.Decimal) string {
	s := d.StringFixed(int32(clampFracDigits(d)))
	return s
}

func clampFracDigits(d decimal.Decimal) int32 {
	exp := -d.Exponent()
	if exp < 2 {
		return 2
	}
	if exp > 6 {
		return 6
	}
	return exp
}

func formatClock(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatHexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, " ")
}
