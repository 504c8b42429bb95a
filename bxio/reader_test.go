package bxio

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestReaderNumbers(t *testing.T) {
	r := NewReader([]byte{
		0x2A,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0x00, 0x00, 0x80, 0x3F,
	})
	if v := r.Byte(); v != 0x2A {
		t.Errorf("Byte: got %#x", v)
	}
	if v := r.Uint16(); v != 0x1234 {
		t.Errorf("Uint16: got %#x", v)
	}
	if v := r.Int32(); v != 0x12345678 {
		t.Errorf("Int32: got %#x", v)
	}
	if v := r.Float32(); v != 1 {
		t.Errorf("Float32: got %v", v)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if r.Pos() != r.Len() {
		t.Errorf("Pos: got %d, want %d", r.Pos(), r.Len())
	}
}

func TestReaderShortData(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if v := r.Int32(); v != 0 {
		t.Errorf("Int32 after end: got %#x", v)
	}
	if !errors.Is(r.Err(), ErrShortData) {
		t.Fatalf("got %v, want ErrShortData", r.Err())
	}
	var serr StreamError
	if !errors.As(r.Err(), &serr) {
		t.Fatalf("error is not a StreamError: %v", r.Err())
	}
	if serr.Offset != 0 {
		t.Errorf("Offset: got %d, want 0", serr.Offset)
	}
}

func TestReaderSticky(t *testing.T) {
	r := NewReader([]byte{0x01})
	r.Seek(8)
	if !errors.Is(r.Err(), ErrSeekRange) {
		t.Fatalf("got %v, want ErrSeekRange", r.Err())
	}
	// Operations after a failure are no-ops.
	if v := r.Byte(); v != 0 {
		t.Errorf("Byte after failure: got %#x", v)
	}
	if r.Pos() != 0 {
		t.Errorf("Pos after failure: got %d", r.Pos())
	}
}

func TestReaderStepInOut(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	if v := r.Byte(); v != 0xAA {
		t.Fatalf("Byte: got %#x", v)
	}
	r.StepIn(3)
	if v := r.Byte(); v != 0xDD {
		t.Errorf("Byte after StepIn: got %#x", v)
	}
	r.StepIn(2)
	if v := r.Byte(); v != 0xCC {
		t.Errorf("Byte after nested StepIn: got %#x", v)
	}
	r.StepOut()
	if r.Pos() != 4 {
		t.Errorf("Pos after StepOut: got %d, want 4", r.Pos())
	}
	r.StepOut()
	if r.Pos() != 1 {
		t.Errorf("Pos after StepOut: got %d, want 1", r.Pos())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	r.StepOut()
	if !errors.Is(r.Err(), ErrStepOut) {
		t.Errorf("got %v, want ErrStepOut", r.Err())
	}
}

func TestReaderAssert(t *testing.T) {
	r := NewReader([]byte{0x07, 0x10, 0x00, 0x00, 0x00})
	if v := r.AssertByte(6, 7); v != 7 {
		t.Errorf("AssertByte: got %d", v)
	}
	if v := r.AssertInt32(0x10); v != 0x10 {
		t.Errorf("AssertInt32: got %#x", v)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	r = NewReader([]byte{0x09, 0x00, 0x00, 0x00})
	r.AssertInt32(1, 2)
	var merr MismatchError
	if !errors.As(r.Err(), &merr) {
		t.Fatalf("error is not a MismatchError: %v", r.Err())
	}
	if merr.Offset != 0 || merr.Actual != 9 {
		t.Errorf("got offset %d actual %d, want 0 and 9", merr.Offset, merr.Actual)
	}
	if len(merr.Expected) != 2 || merr.Expected[0] != 1 || merr.Expected[1] != 2 {
		t.Errorf("Expected: got %v", merr.Expected)
	}
}

func TestReaderBigEndian(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x18})
	if v := r.Uint32BE(); v != 0x10000 {
		t.Errorf("Uint32BE: got %#x", v)
	}
	if v := r.AssertInt32BE(0x18, 0x24); v != 0x18 {
		t.Errorf("AssertInt32BE: got %#x", v)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	r = NewReader([]byte{0x00, 0x00, 0x00, 0x44})
	r.AssertInt32BE(0x18)
	var merr MismatchError
	if !errors.As(r.Err(), &merr) {
		t.Fatalf("error is not a MismatchError: %v", r.Err())
	}
	if merr.Actual != 0x44 {
		t.Errorf("Actual: got %#x", merr.Actual)
	}
}

func TestReaderAssertASCII(t *testing.T) {
	r := NewReader([]byte("L\x00rest"))
	if v := r.AssertASCII("L\x00", "B\x00"); v != "L\x00" {
		t.Errorf("AssertASCII: got %q", v)
	}
	r = NewReader([]byte("XYrest"))
	r.AssertASCII("L\x00", "B\x00")
	var merr MagicError
	if !errors.As(r.Err(), &merr) {
		t.Fatalf("error is not a MagicError: %v", r.Err())
	}
	if merr.Actual != "XY" {
		t.Errorf("Actual: got %q", merr.Actual)
	}
}

func TestReaderPad(t *testing.T) {
	r := NewReader([]byte{0x01, 0x00, 0x00, 0x00, 0x02})
	r.Byte()
	r.Pad(4)
	if v := r.Byte(); v != 0x02 {
		t.Errorf("Byte after Pad: got %#x", v)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Already aligned: consumes nothing.
	r.Pad(4)
	if r.Pos() != 5 {
		t.Errorf("Pos after aligned Pad: got %d", r.Pos())
	}

	r = NewReader([]byte{0x01, 0xFF, 0x00, 0x00})
	r.Byte()
	r.Pad(4)
	if !errors.Is(r.Err(), ErrDirtyPadding) {
		t.Errorf("got %v, want ErrDirtyPadding", r.Err())
	}
}

func TestReaderStrings(t *testing.T) {
	r := NewReader([]byte{'a', 'b', 'c', 0x00, 'd'})
	if s := r.ShiftJISZ(); s != "abc" {
		t.Errorf("ShiftJISZ: got %q", s)
	}
	if v := r.Byte(); v != 'd' {
		t.Errorf("Byte after ShiftJISZ: got %q", v)
	}

	r = NewReader([]byte{'h', 0, 'i', 0, 0, 0, 'x', 0})
	if s := r.UTF16Z(); s != "hi" {
		t.Errorf("UTF16Z: got %q", s)
	}
	if r.Pos() != 6 {
		t.Errorf("Pos after UTF16Z: got %d", r.Pos())
	}

	// Japanese text through the full encoder/decoder pair.
	b, err := EncodeShiftJIS("ダークソウル")
	if err != nil {
		t.Fatalf("EncodeShiftJIS: %s", err)
	}
	r = NewReader(b)
	if s := r.ShiftJIS(len(b)); s != "ダークソウル" {
		t.Errorf("ShiftJIS: got %q", s)
	}
}

func TestReaderArrays(t *testing.T) {
	r := NewReader([]byte{
		0x01, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0x80, 0xBF,
	})
	vs := r.Int32s(2)
	if len(vs) != 2 || vs[0] != 1 || vs[1] != -1 {
		t.Errorf("Int32s: got %v", vs)
	}
	fs := r.Float32s(1)
	if len(fs) != 1 || fs[0] != -1 {
		t.Errorf("Float32s: got %v", fs)
	}
}

func TestReaderVectors(t *testing.T) {
	w := NewWriter()
	w.Float32(1)
	w.Float32(2)
	w.Float32(3)
	w.Float32(4)
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	r := NewReader(b)
	if v := r.Vec3(); v.X() != 1 || v.Y() != 2 || v.Z() != 3 {
		t.Errorf("Vec3: got %v", v)
	}
	r.Seek(0)
	if v := r.Vec4(); v != (mgl32.Vec4{1, 2, 3, 4}) {
		t.Errorf("Vec4: got %v", v)
	}
}
