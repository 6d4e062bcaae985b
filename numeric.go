package paradox

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateEpoch is day 1 of the Paradox calendar: 0001-01-01, inclusive.
var dateEpoch = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

// signBitTransform applies Paradox's sign-bit-inversion rule to a copy of
// buf and reports whether the stored value was the null sentinel (every
// byte zero). The returned slice, when not null, is a plain big-endian
// two's-complement representation of the original value at its original
// width.
func signBitTransform(buf []byte) (out []byte, isNull bool) {
	out = make([]byte, len(buf))
	copy(out, buf)
	if out[0]&0x80 != 0 {
		out[0] &^= 0x80
		return out, false
	}
	nonZero := false
	for _, b := range buf {
		if b != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return out, true
	}
	out[0] |= 0x80
	return out, false
}

// decodeSignedInt decodes an N-byte big-endian sign-biased integer,
// sign-extended to int64.
func decodeSignedInt(buf []byte) (value int64, isNull bool) {
	transformed, isNull := signBitTransform(buf)
	if isNull {
		return 0, true
	}
	full := make([]byte, 8)
	if transformed[0]&0x80 != 0 {
		for i := range full {
			full[i] = 0xFF
		}
	}
	copy(full[8-len(transformed):], transformed)
	return int64(binary.BigEndian.Uint64(full)), false
}

// decodeUnsignedInt decodes an N-byte big-endian sign-biased integer as an
// unsigned value after the same transform, used by Time decoding.
func decodeUnsignedInt(buf []byte) (value uint64, isNull bool) {
	transformed, isNull := signBitTransform(buf)
	if isNull {
		return 0, true
	}
	full := make([]byte, 8)
	copy(full[8-len(transformed):], transformed)
	return binary.BigEndian.Uint64(full), false
}

// decodeDouble decodes an 8-byte big-endian sign-biased IEEE-754 double.
// Negative values have every byte complemented, not just the sign bit.
func decodeDouble(buf []byte) (value float64, isNull bool) {
	if len(buf) != 8 {
		return 0, true
	}
	out := make([]byte, 8)
	copy(out, buf)
	if out[0]&0x80 != 0 {
		out[0] &^= 0x80
	} else {
		nonZero := false
		for _, b := range buf {
			if b != 0 {
				nonZero = true
				break
			}
		}
		if !nonZero {
			return 0, true
		}
		for i := range out {
			out[i] = ^out[i]
		}
	}
	bits := binary.BigEndian.Uint64(out)
	return math.Float64frombits(bits), false
}

// DecodeShort decodes a Short field: signed 16-bit integer.
func DecodeShort(buf []byte) (value int16, isNull bool) {
	v, null := decodeSignedInt(buf)
	return int16(v), null
}

// DecodeLong decodes a Long/AutoInc field: signed 32-bit integer.
func DecodeLong(buf []byte) (value int32, isNull bool) {
	v, null := decodeSignedInt(buf)
	return int32(v), null
}

// DecodeNumber decodes a Number/Currency field: IEEE-754 double.
func DecodeNumber(buf []byte) (value float64, isNull bool) {
	return decodeDouble(buf)
}

// DecodeLogical decodes a Logical field. Zero means null; otherwise the
// high bit is toggled and the remaining bits are tested for non-zero.
func DecodeLogical(b byte) (value bool, isNull bool) {
	if b == 0 {
		return false, true
	}
	toggled := b ^ 0x80
	return toggled&0x7F != 0, false
}

// DecodeDate decodes a Date field as days since 0001-01-01 inclusive,
// UTC calendar. Null for non-positive results.
func DecodeDate(buf []byte) (value time.Time, isNull bool) {
	v, null := decodeSignedInt(buf)
	if null || v <= 0 {
		return time.Time{}, true
	}
	return dateEpoch.AddDate(0, 0, int(v-1)), false
}

// DecodeTime decodes a Time field as milliseconds since midnight, emitted
// as a duration.
func DecodeTime(buf []byte) (value time.Duration, isNull bool) {
	v, null := decodeUnsignedInt(buf)
	if null {
		return 0, true
	}
	return time.Duration(v) * time.Millisecond, false
}

// DecodeTimestamp decodes a Timestamp field: a double whose integer part
// is days since the Date epoch and whose fractional part times 86,400 is
// seconds within the day.
func DecodeTimestamp(buf []byte) (value time.Time, isNull bool) {
	v, null := decodeDouble(buf)
	if null || v <= 0 {
		return time.Time{}, true
	}
	days, frac := math.Modf(v)
	seconds := frac * 86400
	return dateEpoch.AddDate(0, 0, int(days)-1).Add(time.Duration(seconds * float64(time.Second))), false
}

// DecodeBCD decodes a 17-byte fixed-point BCD field. descriptorLength,
// when positive, overrides the scale encoded in the field itself.
//
// The declared nibble count in the source material ("34 significant
// nibbles") does not square with the stated 17-byte field width (which
// holds only 32 digit nibbles once the leading sign/scale byte is
// removed); this decodes the digit nibbles actually present rather than a
// hardcoded 34, which behaves identically for genuine 17-byte fields and
// degrades gracefully for any other width a caller hands it.
func DecodeBCD(buf []byte, descriptorLength int) (value decimal.Decimal, isNull bool) {
	if len(buf) < 17 || buf[0] == 0 {
		return decimal.Decimal{}, true
	}
	scale := int(buf[0] & 0x3F)
	if descriptorLength > 0 {
		scale = descriptorLength
	}
	positive := buf[0]&0x80 != 0

	nibbles := make([]byte, 0, (len(buf)-1)*2)
	for _, b := range buf[1:] {
		hi := b >> 4
		lo := b & 0x0F
		if !positive {
			hi ^= 0x0F
			lo ^= 0x0F
		}
		nibbles = append(nibbles, hi&0x0F, lo&0x0F)
	}

	total := len(nibbles)
	intDigitCount := total - scale
	if intDigitCount < 1 {
		intDigitCount = 1
	}

	var intBuilder strings.Builder
	for i := 0; i < intDigitCount; i++ {
		idx := i
		if idx < total {
			intBuilder.WriteByte('0' + nibbles[idx])
		} else {
			intBuilder.WriteByte('0')
		}
	}
	intPart := strings.TrimLeft(intBuilder.String(), "0")
	if intPart == "" {
		intPart = "0"
	}

	var fracPart string
	if scale > 0 {
		var fracBuilder strings.Builder
		for i := 0; i < scale; i++ {
			idx := intDigitCount + i
			if idx >= 0 && idx < total {
				fracBuilder.WriteByte('0' + nibbles[idx])
			} else {
				fracBuilder.WriteByte('0')
			}
		}
		fracPart = fracBuilder.String()
	}

	text := intPart
	if fracPart != "" {
		text += "." + fracPart
	}
	if !positive {
		text = "-" + text
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, true
	}
	return d, false
}
