package mtd

import (
	"io"

	"github.com/nex3/SoulsFormats/bxio"
)

// Encode writes m to w. The record is assembled in memory and written in
// one piece, so a failed precondition emits nothing.
func Encode(w io.Writer, m *MTD) error {
	b, err := EncodeBytes(m)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeBytes encodes m and returns the assembled record.
func EncodeBytes(m *MTD) ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	bw := bxio.NewWriter()

	bw.Int32(0)
	bw.ReserveInt32("fileSize")
	bw.Int32(3)
	writeMarker(bw, 0x01)

	bw.Int32(0)
	bw.ReserveInt32("dataSize")
	bw.Int32(2)
	writeMarker(bw, 0xB0)

	bw.Int32(0)
	writeMarkedString(bw, 0x34, "MTD ")
	bw.Int32(1000)
	writeMarker(bw, 0x01)

	writeMarkedString(bw, 0xA3, m.ShaderPath)
	writeMarkedString(bw, 0x03, m.Description)
	bw.Int32(1)

	bw.Int32(0)
	bw.ReserveInt32("listsSize")
	bw.Int32(4)
	writeMarker(bw, 0x03)
	listsStart := bw.Pos()

	bw.Int32(int32(len(m.Params)))
	for _, p := range m.Params {
		encodeParam(bw, p)
	}
	writeMarker(bw, 0x03)

	bw.Int32(int32(len(m.Textures)))
	for _, t := range m.Textures {
		encodeTexture(bw, t)
	}
	writeMarker(bw, 0x04)
	bw.FillInt32("listsSize", int32(bw.Pos()-listsStart))

	writeMarker(bw, 0x04)
	writeMarker(bw, 0x04)
	writeMarker(bw, 0x04)

	bw.FillInt32("fileSize", int32(bw.Pos()-16))
	bw.FillInt32("dataSize", int32(bw.Pos()-32))
	return bw.Finish()
}

func encodeParam(bw *bxio.Writer, p Param) {
	bw.Int32(0)
	bw.Int32(p.Aux)
	writeMarker(bw, 0xA3)
	writeMarkedString(bw, 0xA3, p.Name)
	writeMarkedString(bw, 0x04, p.Value.Type().String())
	bw.Int32(1)

	bw.Int32(0)
	bw.ReserveInt32("valueSize")
	bw.Int32(4)
	writeMarker(bw, 0x34)
	valueStart := bw.Pos()
	encodeValue(bw, p.Value)
	bw.FillInt32("valueSize", int32(bw.Pos()-valueStart))

	writeMarker(bw, 0x04)
	bw.Int32(0)
}

// encodeValue writes the discriminant, count, and payload of v. The
// discriminant and count are derived from the value's tag; with one value
// type per shape the payload cannot disagree with them.
func encodeValue(bw *bxio.Writer, v Value) {
	typ := v.Type()
	bw.Byte(typ.class())
	bw.Byte(byte(typ.Arity()))
	switch v := v.(type) {
	case ValueBool:
		bw.Bool(bool(v))
	case ValueFloat:
		bw.Float32(float32(v))
	case ValueFloat2:
		bw.Float32s(v[:])
	case ValueFloat3:
		bw.Float32s(v[:])
	case ValueFloat4:
		bw.Float32s(v[:])
	case ValueInt:
		bw.Int32(int32(v))
	case ValueInt2:
		bw.Int32s(v[:])
	}
}

func encodeTexture(bw *bxio.Writer, t Texture) {
	bw.Int32(0)
	bw.Int32(t.Aux)
	if t.Extended {
		bw.Int32(5)
	} else {
		bw.Int32(3)
	}
	writeMarker(bw, 0xA3)
	writeMarkedString(bw, 0x35, t.Type)
	bw.Int32(t.UVNumber)
	writeMarker(bw, 0x35)
	bw.Int32(t.ShaderDataIndex)
	if t.Extended {
		writeMarkedString(bw, 0xBA, t.Path)
		bw.Int32(int32(len(t.Floats)))
		bw.Float32s(t.Floats)
	}
}
