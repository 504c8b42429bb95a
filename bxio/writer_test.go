package bxio

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterBytes(t *testing.T) {
	w := NewWriter()
	w.Byte(0x2A)
	w.Uint16(0x1234)
	w.Int32(-2)
	w.Bool(true)
	w.Bool(false)
	w.ASCII("MTD ")
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	want := []byte{
		0x2A,
		0x34, 0x12,
		0xFE, 0xFF, 0xFF, 0xFF,
		0x01,
		0x00,
		'M', 'T', 'D', ' ',
	}
	if !bytes.Equal(b, want) {
		t.Errorf("got % X, want % X", b, want)
	}
	if w.Pos() != len(want) {
		t.Errorf("Pos: got %d, want %d", w.Pos(), len(want))
	}
}

func TestWriterPad(t *testing.T) {
	w := NewWriter()
	w.Byte(0xFF)
	w.Pad(4)
	w.Pad(4)
	w.Byte(0xEE)
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	want := []byte{0xFF, 0x00, 0x00, 0x00, 0xEE}
	if !bytes.Equal(b, want) {
		t.Errorf("got % X, want % X", b, want)
	}
}

func TestWriterReserveFill(t *testing.T) {
	w := NewWriter()
	w.ReserveInt32("size")
	w.ASCII("payload")
	w.FillInt32("size", int32(w.Pos()-4))
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	r := NewReader(b)
	if v := r.Int32(); v != 7 {
		t.Errorf("patched size: got %d, want 7", v)
	}
	if s := string(r.Bytes(7)); s != "payload" {
		t.Errorf("payload: got %q", s)
	}
}

func TestWriterBigEndian(t *testing.T) {
	w := NewWriter()
	w.Uint32BE(0x10000)
	w.ReserveInt32BE("size")
	w.FillInt32("size", 0x18)
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	want := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x18}
	if !bytes.Equal(b, want) {
		t.Errorf("got % X, want % X", b, want)
	}
}

func TestWriterReserveReuse(t *testing.T) {
	w := NewWriter()
	w.ReserveInt32("n")
	w.FillInt32("n", 1)
	w.ReserveInt32("n")
	w.FillInt32("n", 2)
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	r := NewReader(b)
	if v := r.Int32(); v != 1 {
		t.Errorf("first fill: got %d", v)
	}
	if v := r.Int32(); v != 2 {
		t.Errorf("second fill: got %d", v)
	}
}

func TestWriterUnfilled(t *testing.T) {
	w := NewWriter()
	w.ReserveInt32("size")
	if _, err := w.Finish(); err == nil {
		t.Fatal("Finish succeeded with an unfilled reservation")
	} else {
		var ferr FillError
		if !errors.As(err, &ferr) || ferr.Name != "size" {
			t.Errorf("got %v, want FillError for \"size\"", err)
		}
	}
}

func TestWriterFillUnreserved(t *testing.T) {
	w := NewWriter()
	w.FillInt32("ghost", 1)
	if _, err := w.Finish(); err == nil {
		t.Fatal("Finish succeeded after filling an unreserved name")
	}
}

func TestWriterStrings(t *testing.T) {
	w := NewWriter()
	w.ShiftJISZ("abc")
	w.UTF16Z("hi")
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %s", err)
	}
	r := NewReader(b)
	if s := r.ShiftJISZ(); s != "abc" {
		t.Errorf("ShiftJISZ: got %q", s)
	}
	if s := r.UTF16Z(); s != "hi" {
		t.Errorf("UTF16Z: got %q", s)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestWriterShiftJISUnmappable(t *testing.T) {
	w := NewWriter()
	w.ShiftJIS("\U0001F600 is not in Shift-JIS")
	if _, err := w.Finish(); err == nil {
		t.Fatal("Finish succeeded with an unmappable rune")
	}
}
