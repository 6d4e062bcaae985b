package paradox

import "fmt"

// OutOfBoundsError is returned by ByteReader when a read or seek would run
// past the end of the buffer, or before its start.
type OutOfBoundsError struct {
	Requested int
	Remaining int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("paradox: out of bounds: requested %d bytes, %d remaining", e.Requested, e.Remaining)
}

// IOError wraps a failure to read a file from disk.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("paradox: io error reading %q: %v", e.Path, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }

// TooSmallError is returned when a buffer is shorter than the fixed prefix
// a format requires before any field can be parsed.
type TooSmallError struct {
	Format  string
	Got     int
	Minimum int
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf("paradox: %s buffer too small: got %d bytes, need at least %d", e.Format, e.Got, e.Minimum)
}

// InvalidSignatureError is returned when a .TV header does not begin with
// the expected Borland Standard File signature.
type InvalidSignatureError struct {
	Expected string
	Found    string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("paradox: invalid signature: expected %q, found %q", e.Expected, e.Found)
}

// MissingFieldDescriptorsError is returned when the field-type/length
// pairs starting at FieldInfoOffset run past the end of the buffer handed
// to ParseFieldDescriptors. HeaderLength holds that buffer's length; the
// header's declared header_length is not consulted.
type MissingFieldDescriptorsError struct {
	FieldInfoOffset int
	HeaderLength    int
}

func (e *MissingFieldDescriptorsError) Error() string {
	return fmt.Sprintf("paradox: field descriptors at offset %d exceed buffer length %d", e.FieldInfoOffset, e.HeaderLength)
}

// InvalidRecordSizeError is returned when a table header declares a
// record size of zero.
type InvalidRecordSizeError struct{}

func (e *InvalidRecordSizeError) Error() string {
	return "paradox: invalid record size: header declares 0 bytes per record"
}

// UnsupportedFormatError is returned by the dispatcher when no decoder
// exists for the requested format.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("paradox: unsupported format: %s", e.Format)
}
