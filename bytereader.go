package paradox

import "encoding/binary"

// ByteReader walks an immutable byte buffer with bounds-checked,
// little-endian positional reads. A failed read leaves the cursor
// unchanged.
type ByteReader struct {
	data []byte
	pos  int
}

// NewByteReader wraps data for sequential reading starting at offset 0.
func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

// Len reports the total size of the underlying buffer.
func (r *ByteReader) Len() int { return len(r.data) }

// Pos reports the current cursor position.
func (r *ByteReader) Pos() int { return r.pos }

// Remaining reports how many bytes are left to read from the cursor.
func (r *ByteReader) Remaining() int { return len(r.data) - r.pos }

func (r *ByteReader) require(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return &OutOfBoundsError{Requested: n, Remaining: r.Remaining()}
	}
	return nil
}

// ReadU8 reads one unsigned byte and advances the cursor.
func (r *ByteReader) ReadU8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a little-endian uint16 and advances the cursor.
func (r *ByteReader) ReadU16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32 and advances the cursor.
func (r *ByteReader) ReadU32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// ReadBytes reads n raw bytes and advances the cursor. The returned slice
// aliases the underlying buffer; callers must not mutate it.
func (r *ByteReader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Seek moves the cursor to an absolute offset within [0, len].
func (r *ByteReader) Seek(offset int) error {
	if offset < 0 || offset > len(r.data) {
		return &OutOfBoundsError{Requested: offset, Remaining: r.Remaining()}
	}
	r.pos = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (r *ByteReader) Skip(n int) error {
	return r.Seek(r.pos + n)
}

// PeekU16LE reads a little-endian uint16 at an arbitrary index without
// moving any cursor.
func PeekU16LE(data []byte, index int) (uint16, error) {
	if index < 0 || index+2 > len(data) {
		return 0, &OutOfBoundsError{Requested: 2, Remaining: len(data) - index}
	}
	return binary.LittleEndian.Uint16(data[index : index+2]), nil
}

// PeekU32LE reads a little-endian uint32 at an arbitrary index without
// moving any cursor.
func PeekU32LE(data []byte, index int) (uint32, error) {
	if index < 0 || index+4 > len(data) {
		return 0, &OutOfBoundsError{Requested: 4, Remaining: len(data) - index}
	}
	return binary.LittleEndian.Uint32(data[index : index+4]), nil
}
