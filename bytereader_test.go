package paradox

import "testing"

func TestByteReaderSequentialReads(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	r := NewByteReader(data)

	b, err := r.ReadU8()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadU8: got (%v, %v)", b, err)
	}
	u16, err := r.ReadU16()
	if err != nil || u16 != 0x0302 {
		t.Fatalf("ReadU16: got (%#x, %v)", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0x07060504 {
		t.Fatalf("ReadU32: got (%#x, %v)", u32, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining: got %d, want 0", r.Remaining())
	}
}

func TestByteReaderOutOfBounds(t *testing.T) {
	r := NewByteReader([]byte{0x01, 0x02})
	if _, err := r.ReadU32(); err == nil {
		t.Fatal("expected out-of-bounds error reading u32 from 2 bytes")
	}
	if r.Pos() != 0 {
		t.Fatalf("failed read must not move cursor, got pos %d", r.Pos())
	}
}

func TestByteReaderSeekAndSkip(t *testing.T) {
	r := NewByteReader(make([]byte, 10))
	if err := r.Seek(5); err != nil {
		t.Fatal(err)
	}
	if err := r.Skip(3); err != nil {
		t.Fatal(err)
	}
	if r.Pos() != 8 {
		t.Fatalf("Pos: got %d, want 8", r.Pos())
	}
	if err := r.Seek(11); err == nil {
		t.Fatal("expected error seeking past end")
	}
	if err := r.Seek(-1); err == nil {
		t.Fatal("expected error seeking before start")
	}
}

func TestPeekDoesNotMoveAnyCursor(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	v, err := PeekU16LE(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xCCBB {
		t.Fatalf("PeekU16LE: got %#x, want 0xCCBB", v)
	}
	if _, err := PeekU32LE(data, 1); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
