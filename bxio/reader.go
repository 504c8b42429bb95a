package bxio

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Reader reads structured data from a byte slice. Reads are little-endian
// except for the explicit BE variants used by container headers.
//
// The zero Reader is not usable; construct with NewReader. Methods after a
// failure return zero values, and the first failure is reported by Err.
type Reader struct {
	data  []byte
	off   int
	steps []int
	err   error
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered by the Reader.
func (r *Reader) Err() error {
	return r.err
}

// fail records err against the current offset, unless an error is already
// recorded.
func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = StreamError{Offset: int64(r.off), Cause: err}
	}
}

// Fail records err as the Reader's error, unless one is already recorded.
// Format packages use it to report violations the Reader itself cannot see.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Pos returns the current offset.
func (r *Reader) Pos() int {
	return r.off
}

// Len returns the total length of the data.
func (r *Reader) Len() int {
	return len(r.data)
}

// Seek sets the offset absolutely.
func (r *Reader) Seek(off int) {
	if r.err != nil {
		return
	}
	if off < 0 || off > len(r.data) {
		r.fail(ErrSeekRange)
		return
	}
	r.off = off
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int) {
	r.Seek(r.off + n)
}

// StepIn saves the current offset and seeks to off. Paired with StepOut to
// read a sub-record referenced by an offset table and return.
func (r *Reader) StepIn(off int) {
	if r.err != nil {
		return
	}
	r.steps = append(r.steps, r.off)
	r.Seek(off)
}

// StepOut restores the offset saved by the most recent StepIn.
func (r *Reader) StepOut() {
	if r.err != nil {
		return
	}
	if len(r.steps) == 0 {
		r.fail(ErrStepOut)
		return
	}
	r.off = r.steps[len(r.steps)-1]
	r.steps = r.steps[:len(r.steps)-1]
}

// take returns the next n bytes and advances past them, or records
// ErrShortData and returns nil.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.off {
		r.fail(ErrShortData)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Byte reads one byte.
func (r *Reader) Byte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bytes reads n bytes. The returned slice aliases the underlying data.
func (r *Reader) Bytes(n int) []byte {
	return r.take(n)
}

// Bool reads one byte that must be 0 or 1.
func (r *Reader) Bool() bool {
	return r.AssertByte(0, 1) != 0
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Int32BE reads a big-endian int32. Container headers are big-endian even
// when the wrapped content is not.
func (r *Reader) Int32BE() int32 {
	return int32(r.Uint32BE())
}

// Uint32BE reads a big-endian uint32.
func (r *Reader) Uint32BE() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Float32 reads a little-endian float32.
func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

// Count reads a little-endian int32 element count, which must not be
// negative.
func (r *Reader) Count() int {
	off := r.off
	v := r.Int32()
	if r.err == nil && v < 0 {
		r.err = StreamError{Offset: int64(off), Cause: ErrNegativeCount}
	}
	return int(v)
}

// Int32s reads n little-endian int32s.
func (r *Reader) Int32s(n int) []int32 {
	b := r.take(4 * n)
	if b == nil {
		return nil
	}
	vs := make([]int32, n)
	for i := range vs {
		vs[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return vs
}

// Float32s reads n little-endian float32s.
func (r *Reader) Float32s(n int) []float32 {
	b := r.take(4 * n)
	if b == nil {
		return nil
	}
	vs := make([]float32, n)
	for i := range vs {
		vs[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return vs
}

// Vec2 reads two float32s.
func (r *Reader) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{r.Float32(), r.Float32()}
}

// Vec3 reads three float32s.
func (r *Reader) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.Float32(), r.Float32(), r.Float32()}
}

// Vec4 reads four float32s.
func (r *Reader) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{r.Float32(), r.Float32(), r.Float32(), r.Float32()}
}

// AssertByte reads one byte that must be among want.
func (r *Reader) AssertByte(want ...byte) byte {
	off := r.off
	v := r.Byte()
	if r.err != nil {
		return 0
	}
	for _, w := range want {
		if v == w {
			return v
		}
	}
	set := make([]int64, len(want))
	for i, w := range want {
		set[i] = int64(w)
	}
	r.err = MismatchError{Offset: int64(off), Expected: set, Actual: int64(v)}
	return 0
}

// AssertInt16 reads a little-endian int16 that must be among want.
func (r *Reader) AssertInt16(want ...int16) int16 {
	off := r.off
	v := r.Int16()
	if r.err != nil {
		return 0
	}
	for _, w := range want {
		if v == w {
			return v
		}
	}
	set := make([]int64, len(want))
	for i, w := range want {
		set[i] = int64(w)
	}
	r.err = MismatchError{Offset: int64(off), Expected: set, Actual: int64(v)}
	return 0
}

// AssertInt32 reads a little-endian int32 that must be among want.
func (r *Reader) AssertInt32(want ...int32) int32 {
	off := r.off
	v := r.Int32()
	if r.err != nil {
		return 0
	}
	for _, w := range want {
		if v == w {
			return v
		}
	}
	set := make([]int64, len(want))
	for i, w := range want {
		set[i] = int64(w)
	}
	r.err = MismatchError{Offset: int64(off), Expected: set, Actual: int64(v)}
	return 0
}

// AssertInt32BE reads a big-endian int32 that must be among want.
func (r *Reader) AssertInt32BE(want ...int32) int32 {
	off := r.off
	v := r.Int32BE()
	if r.err != nil {
		return 0
	}
	for _, w := range want {
		if v == w {
			return v
		}
	}
	set := make([]int64, len(want))
	for i, w := range want {
		set[i] = int64(w)
	}
	r.err = MismatchError{Offset: int64(off), Expected: set, Actual: int64(v)}
	return 0
}

// AssertASCII reads len(want[0]) bytes that must match one of want. All
// want strings must have equal length.
func (r *Reader) AssertASCII(want ...string) string {
	off := r.off
	b := r.take(len(want[0]))
	if b == nil {
		return ""
	}
	v := string(b)
	for _, w := range want {
		if v == w {
			return v
		}
	}
	r.err = MagicError{Offset: int64(off), Expected: want, Actual: v}
	return ""
}

// Pad consumes padding up to the next multiple of align bytes. The padding
// must be zero-filled; nonzero padding fails so that a later re-encode, which
// always pads with zeros, reproduces the input exactly.
func (r *Reader) Pad(align int) {
	if r.err != nil {
		return
	}
	rem := r.off % align
	if rem == 0 {
		return
	}
	off := r.off
	b := r.take(align - rem)
	if b == nil {
		return
	}
	for i, v := range b {
		if v != 0 {
			r.err = StreamError{Offset: int64(off + i), Cause: ErrDirtyPadding}
			return
		}
	}
}

// ShiftJIS reads n bytes of Shift-JIS text.
func (r *Reader) ShiftJIS(n int) string {
	b := r.take(n)
	if b == nil {
		return ""
	}
	return DecodeShiftJIS(b)
}

// ShiftJISZ reads zero-terminated Shift-JIS text, consuming the terminator.
func (r *Reader) ShiftJISZ() string {
	if r.err != nil {
		return ""
	}
	end := r.off
	for {
		if end >= len(r.data) {
			r.fail(ErrShortData)
			return ""
		}
		if r.data[end] == 0 {
			break
		}
		end++
	}
	s := DecodeShiftJIS(r.data[r.off:end])
	r.off = end + 1
	return s
}

// UTF16Z reads zero-terminated UTF-16LE text, consuming the terminator.
func (r *Reader) UTF16Z() string {
	if r.err != nil {
		return ""
	}
	end := r.off
	for {
		if end+1 >= len(r.data) {
			r.fail(ErrShortData)
			return ""
		}
		if r.data[end] == 0 && r.data[end+1] == 0 {
			break
		}
		end += 2
	}
	s := DecodeUTF16(r.data[r.off:end])
	r.off = end + 2
	return s
}
