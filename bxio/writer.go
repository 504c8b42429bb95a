package bxio

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/anaminus/parse"
	"github.com/go-gl/mathgl/mgl32"
)

// Writer builds a little-endian byte stream in memory.
//
// Size fields that depend on data written later are handled with named
// reservations: ReserveInt32 writes a zero placeholder, FillInt32 records the
// real value, and Finish patches every placeholder before returning the
// assembled bytes. Patching is deferred to Finish so the underlying writer is
// free to buffer.
type Writer struct {
	buf     *bytes.Buffer
	fw      *parse.BinaryWriter
	pos     int
	marks   map[string]mark
	patches []patch
	err     error
}

// mark records where a reservation's placeholder sits and how the patched
// value will be encoded.
type mark struct {
	off int
	be  bool
}

type patch struct {
	mark
	val int32
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	buf := new(bytes.Buffer)
	return &Writer{
		buf:   buf,
		fw:    parse.NewBinaryWriter(buf),
		marks: map[string]mark{},
	}
}

// Err returns the first error encountered by the Writer.
func (w *Writer) Err() error {
	if w.err != nil {
		return w.err
	}
	return w.fw.Err()
}

// fail records err, unless an error is already recorded.
func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Fail records err as the Writer's error, unless one is already recorded.
func (w *Writer) Fail(err error) {
	w.fail(err)
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int {
	return w.pos
}

// Byte writes one byte.
func (w *Writer) Byte(v byte) {
	if !w.fw.Number(v) {
		w.pos++
	}
}

// Bytes writes b.
func (w *Writer) Bytes(b []byte) {
	if !w.fw.Bytes(b) {
		w.pos += len(b)
	}
}

// Bool writes a bool as one byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}

// Int16 writes a little-endian int16.
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint16 writes a little-endian uint16.
func (w *Writer) Uint16(v uint16) {
	if !w.fw.Number(v) {
		w.pos += 2
	}
}

// Int32 writes a little-endian int32.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Uint32 writes a little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	if !w.fw.Number(v) {
		w.pos += 4
	}
}

// Int32BE writes a big-endian int32. Container headers are big-endian even
// when the wrapped content is not.
func (w *Writer) Int32BE(v int32) {
	w.Uint32BE(uint32(v))
}

// Uint32BE writes a big-endian uint32.
func (w *Writer) Uint32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Bytes(b[:])
}

// Float32 writes a little-endian float32.
func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

// Int32s writes each of vs as a little-endian int32.
func (w *Writer) Int32s(vs []int32) {
	for _, v := range vs {
		w.Int32(v)
	}
}

// Float32s writes each of vs as a little-endian float32.
func (w *Writer) Float32s(vs []float32) {
	for _, v := range vs {
		w.Float32(v)
	}
}

// Vec2 writes two float32s.
func (w *Writer) Vec2(v mgl32.Vec2) {
	w.Float32(v[0])
	w.Float32(v[1])
}

// Vec3 writes three float32s.
func (w *Writer) Vec3(v mgl32.Vec3) {
	w.Float32(v[0])
	w.Float32(v[1])
	w.Float32(v[2])
}

// Vec4 writes four float32s.
func (w *Writer) Vec4(v mgl32.Vec4) {
	w.Float32(v[0])
	w.Float32(v[1])
	w.Float32(v[2])
	w.Float32(v[3])
}

// ASCII writes s as raw bytes.
func (w *Writer) ASCII(s string) {
	w.Bytes([]byte(s))
}

// ShiftJIS encodes s as Shift-JIS and writes it without a terminator.
func (w *Writer) ShiftJIS(s string) {
	b, err := EncodeShiftJIS(s)
	if err != nil {
		w.fail(err)
		return
	}
	w.Bytes(b)
}

// ShiftJISZ encodes s as Shift-JIS and writes it with a zero terminator.
func (w *Writer) ShiftJISZ(s string) {
	w.ShiftJIS(s)
	w.Byte(0)
}

// UTF16Z encodes s as UTF-16LE and writes it with a zero terminator.
func (w *Writer) UTF16Z(s string) {
	b, err := EncodeUTF16(s)
	if err != nil {
		w.fail(err)
		return
	}
	w.Bytes(b)
	w.Uint16(0)
}

// Pad writes zero bytes up to the next multiple of align bytes.
func (w *Writer) Pad(align int) {
	if rem := w.pos % align; rem != 0 {
		w.Bytes(make([]byte, align-rem))
	}
}

// ReserveInt32 writes a zero placeholder to be patched later under name.
// A name can be reserved again once it has been filled.
func (w *Writer) ReserveInt32(name string) {
	w.reserve(name, false)
}

// ReserveInt32BE is ReserveInt32 with the patched value written big-endian.
func (w *Writer) ReserveInt32BE(name string) {
	w.reserve(name, true)
}

func (w *Writer) reserve(name string, be bool) {
	if _, ok := w.marks[name]; ok {
		w.fail(FillError{Name: name, Cause: errNotFilled})
		return
	}
	w.marks[name] = mark{off: w.pos, be: be}
	w.Uint32(0)
}

// FillInt32 records v as the value for the placeholder reserved under name.
func (w *Writer) FillInt32(name string, v int32) {
	m, ok := w.marks[name]
	if !ok {
		w.fail(FillError{Name: name, Cause: errNotReserved})
		return
	}
	delete(w.marks, name)
	w.patches = append(w.patches, patch{mark: m, val: v})
}

// Finish flushes the stream, patches every filled reservation, and returns
// the assembled bytes. Unfilled reservations are an error.
func (w *Writer) Finish() ([]byte, error) {
	if _, err := w.fw.End(); err != nil {
		w.fail(err)
	}
	if w.err != nil {
		return nil, w.err
	}
	for name := range w.marks {
		return nil, FillError{Name: name, Cause: errNotFilled}
	}
	b := w.buf.Bytes()
	for _, p := range w.patches {
		if p.be {
			binary.BigEndian.PutUint32(b[p.off:], uint32(p.val))
		} else {
			binary.LittleEndian.PutUint32(b[p.off:], uint32(p.val))
		}
	}
	return b, nil
}
