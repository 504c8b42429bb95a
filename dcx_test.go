package soulsformats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/nex3/SoulsFormats/bxio"
)

func TestDCXRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("g_DiffuseTexture "), 50)
	for _, c := range []Compression{DFLT10000_24_9, DFLT10000_44_9} {
		packed, err := CompressBytes(data, c)
		if err != nil {
			t.Fatalf("%v: CompressBytes: %s", c, err)
		}
		if Detect(packed) != FormatDCX {
			t.Errorf("%v: packed data does not detect as DCX", c)
		}
		out, got, err := DecompressBytes(packed)
		if err != nil {
			t.Fatalf("%v: DecompressBytes: %s", c, err)
		}
		if got != c {
			t.Errorf("%v: unwrapped as %v", c, got)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("%v: round trip changed the data", c)
		}
	}
}

func TestDecompressPassThrough(t *testing.T) {
	data := []byte("not a container")
	out, c, err := Decompress(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decompress: %s", err)
	}
	if c != None {
		t.Errorf("compression: got %v, want none", c)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("got %q", out)
	}
}

func TestDecompressBadHeader(t *testing.T) {
	packed, err := CompressBytes([]byte("payload"), DFLT10000_24_9)
	if err != nil {
		t.Fatalf("CompressBytes: %s", err)
	}
	packed[4] = 0xFF
	_, _, err = DecompressBytes(packed)
	var merr bxio.MismatchError
	if !errors.As(err, &merr) {
		t.Fatalf("error is not a MismatchError: %v", err)
	}
	if merr.Offset != 4 {
		t.Errorf("Offset: got %#x, want 4", merr.Offset)
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	packed, err := CompressBytes([]byte("some payload to wrap"), DFLT10000_24_9)
	if err != nil {
		t.Fatalf("CompressBytes: %s", err)
	}
	// The uncompressed size field of the DCS block.
	binary.BigEndian.PutUint32(packed[0x1C:], 999)
	_, _, err = DecompressBytes(packed)
	var merr bxio.MismatchError
	if !errors.As(err, &merr) {
		t.Fatalf("error is not a MismatchError: %v", err)
	}
	if merr.Offset != 0x1C || merr.Actual != 999 {
		t.Errorf("got offset %#x actual %d, want 0x1C and 999", merr.Offset, merr.Actual)
	}
}

func TestCompressNone(t *testing.T) {
	var buf bytes.Buffer
	if err := Compress(&buf, []byte("bare"), None); err != nil {
		t.Fatalf("Compress: %s", err)
	}
	if buf.String() != "bare" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCompressUnknown(t *testing.T) {
	if _, err := CompressBytes([]byte("x"), Compression(42)); !errors.Is(err, ErrCompression) {
		t.Errorf("got %v, want ErrCompression", err)
	}
}
