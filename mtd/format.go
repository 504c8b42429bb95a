// Package mtd implements a decoder and encoder for the MTD material
// definition format.
//
// An MTD file is a marker-delimited tagged record: a structural fingerprint
// of asserted constants, several back-patched size fields, two header
// strings, a list of typed shader parameters, and a list of texture slots.
// Decoding is all or nothing; any asserted constant outside its allowed set
// aborts with an error locating the mismatch. Encoding a decoded record
// reproduces the input byte for byte.
package mtd

import (
	"github.com/nex3/SoulsFormats/bxio"
)

// A marker is a tag byte followed by zero padding to the next 4-byte
// boundary. Markers delimit every variable-length field in the format.

func readMarker(br *bxio.Reader, tag byte) {
	br.AssertByte(tag)
	br.Pad(4)
}

func writeMarker(bw *bxio.Writer, tag byte) {
	bw.Byte(tag)
	bw.Pad(4)
}

// A marked string is an int32 byte count, Shift-JIS text, and a marker.

func readMarkedString(br *bxio.Reader, tag byte) string {
	n := br.Count()
	s := br.ShiftJIS(n)
	readMarker(br, tag)
	return s
}

func writeMarkedString(bw *bxio.Writer, tag byte, s string) {
	b, err := bxio.EncodeShiftJIS(s)
	if err != nil {
		bw.Fail(err)
		return
	}
	bw.Int32(int32(len(b)))
	bw.Bytes(b)
	writeMarker(bw, tag)
}
