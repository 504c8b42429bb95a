package soulsformats

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"github.com/nex3/SoulsFormats/bxio"
)

// Compression identifies how a file is wrapped.
type Compression int

const (
	// None marks a bare file with no container.
	None Compression = iota

	// DFLT10000_24_9 is the DCX variant used by Demon's Souls and Dark
	// Souls.
	DFLT10000_24_9

	// DFLT10000_44_9 is the DCX variant used by later games.
	DFLT10000_44_9
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case DFLT10000_24_9:
		return "DFLT_10000_24_9"
	case DFLT10000_44_9:
		return "DFLT_10000_44_9"
	}
	return "unknown"
}

// ErrCompression indicates a Compression value this package cannot write.
var ErrCompression = errors.New("unknown compression")

// dcxParams returns the variant-specific header constants. The DCX header
// is big-endian even though the wrapped formats are little-endian.
func dcxParams(c Compression) (unk10, unk14 int32) {
	if c == DFLT10000_24_9 {
		return 0x24, 0x2C
	}
	return 0x44, 0x4C
}

// Decompress unwraps the DCX container around r's contents. Bare input
// passes through unchanged with Compression None, so callers can feed any
// file without sniffing first.
func Decompress(r io.Reader) ([]byte, Compression, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, None, err
	}
	return DecompressBytes(data)
}

// DecompressBytes unwraps data. See Decompress. The returned slice may
// alias data when no container is present.
func DecompressBytes(data []byte) ([]byte, Compression, error) {
	if !bytes.HasPrefix(data, []byte("DCX\x00")) {
		return data, None, nil
	}

	br := bxio.NewReader(data)
	br.AssertASCII("DCX\x00")
	br.AssertInt32BE(0x10000)
	br.AssertInt32BE(0x18)
	br.AssertInt32BE(0x24)
	c := DFLT10000_24_9
	if br.AssertInt32BE(0x24, 0x44) == 0x44 {
		c = DFLT10000_44_9
	}
	_, unk14 := dcxParams(c)
	br.AssertInt32BE(unk14)
	br.AssertASCII("DCS\x00")
	sizeOff := br.Pos()
	uncompressed := br.Int32BE()
	compressed := br.Int32BE()
	br.AssertASCII("DCP\x00")
	br.AssertASCII("DFLT")
	br.AssertInt32BE(0x20)
	br.AssertByte(9)
	br.AssertByte(0)
	br.AssertByte(0)
	br.AssertByte(0)
	br.AssertInt32BE(0)
	br.AssertInt32BE(0)
	br.AssertInt32BE(0)
	br.AssertInt32BE(0x00010100)
	br.AssertASCII("DCA\x00")
	br.AssertInt32BE(8)
	stream := br.Bytes(int(compressed))
	if err := br.Err(); err != nil {
		return nil, None, err
	}

	zr, err := zlib.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, None, err
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, None, err
	}
	if err := zr.Close(); err != nil {
		return nil, None, err
	}
	if len(out) != int(uncompressed) {
		return nil, None, bxio.MismatchError{
			Offset:   int64(sizeOff),
			Expected: []int64{int64(len(out))},
			Actual:   int64(uncompressed),
		}
	}
	return out, c, nil
}

// Compress wraps data per c and writes it to w. None writes data bare.
func Compress(w io.Writer, data []byte, c Compression) error {
	b, err := CompressBytes(data, c)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// CompressBytes wraps data per c. See Compress. The returned slice may
// alias data when c is None.
func CompressBytes(data []byte, c Compression) ([]byte, error) {
	if c == None {
		return data, nil
	}
	if c != DFLT10000_24_9 && c != DFLT10000_44_9 {
		return nil, ErrCompression
	}
	unk10, unk14 := dcxParams(c)

	var zbuf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&zbuf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	bw := bxio.NewWriter()
	bw.ASCII("DCX\x00")
	bw.Int32BE(0x10000)
	bw.Int32BE(0x18)
	bw.Int32BE(0x24)
	bw.Int32BE(unk10)
	bw.Int32BE(unk14)
	bw.ASCII("DCS\x00")
	bw.Int32BE(int32(len(data)))
	bw.ReserveInt32BE("compressedSize")
	bw.ASCII("DCP\x00")
	bw.ASCII("DFLT")
	bw.Int32BE(0x20)
	bw.Byte(9)
	bw.Byte(0)
	bw.Byte(0)
	bw.Byte(0)
	bw.Int32BE(0)
	bw.Int32BE(0)
	bw.Int32BE(0)
	bw.Int32BE(0x00010100)
	bw.ASCII("DCA\x00")
	bw.Int32BE(8)
	start := bw.Pos()
	bw.Bytes(zbuf.Bytes())
	bw.FillInt32("compressedSize", int32(bw.Pos()-start))
	return bw.Finish()
}
