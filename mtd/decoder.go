package mtd

import (
	"io"

	"github.com/nex3/SoulsFormats/bxio"
)

// Decode reads an MTD record from r. The whole record is validated; on any
// structural mismatch no partial result is returned.
func Decode(r io.Reader) (*MTD, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an MTD record held in memory.
func DecodeBytes(data []byte) (*MTD, error) {
	br := bxio.NewReader(data)
	m := New()

	br.AssertInt32(0)
	br.AssertInt32(int32(br.Len() - 16)) // file size
	br.AssertInt32(3)
	readMarker(br, 0x01)

	br.AssertInt32(0)
	br.AssertInt32(int32(br.Len() - 32)) // data size
	br.AssertInt32(2)
	readMarker(br, 0xB0)

	br.AssertInt32(0)
	magicOff := br.Pos()
	if s := readMarkedString(br, 0x34); br.Err() == nil && s != "MTD " {
		br.Fail(bxio.MagicError{Offset: int64(magicOff), Expected: []string{"MTD "}, Actual: s})
	}
	br.AssertInt32(1000)
	readMarker(br, 0x01)

	m.ShaderPath = readMarkedString(br, 0xA3)
	m.Description = readMarkedString(br, 0x03)
	br.AssertInt32(1)

	br.AssertInt32(0)
	sizeOff := br.Pos()
	listsSize := br.Int32()
	br.AssertInt32(4)
	readMarker(br, 0x03)
	listsStart := br.Pos()

	paramCount := br.Count()
	for i := 0; i < paramCount && br.Err() == nil; i++ {
		p := decodeParam(br)
		if err := br.Err(); err != nil {
			return nil, ParamError{Index: i, Name: p.Name, Cause: err}
		}
		m.Params = append(m.Params, p)
	}
	readMarker(br, 0x03)

	textureCount := br.Count()
	for i := 0; i < textureCount && br.Err() == nil; i++ {
		t := decodeTexture(br)
		if err := br.Err(); err != nil {
			return nil, TextureError{Index: i, Cause: err}
		}
		m.Textures = append(m.Textures, t)
	}
	readMarker(br, 0x04)

	if br.Err() == nil && br.Pos()-listsStart != int(listsSize) {
		br.Fail(bxio.MismatchError{
			Offset:   int64(sizeOff),
			Expected: []int64{int64(br.Pos() - listsStart)},
			Actual:   int64(listsSize),
		})
	}

	readMarker(br, 0x04)
	readMarker(br, 0x04)
	readMarker(br, 0x04)

	if br.Err() == nil && br.Pos() != br.Len() {
		br.Fail(bxio.StreamError{Offset: int64(br.Pos()), Cause: ErrTrailingData})
	}
	if err := br.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeParam(br *bxio.Reader) Param {
	var p Param
	br.AssertInt32(0)
	p.Aux = br.Int32()
	readMarker(br, 0xA3)
	p.Name = readMarkedString(br, 0xA3)
	typeName := readMarkedString(br, 0x04)
	if br.Err() != nil {
		return p
	}
	typ, ok := parseType(typeName)
	if !ok {
		br.Fail(UnknownTagError{Tag: typeName})
		return p
	}
	br.AssertInt32(1)

	br.AssertInt32(0)
	sizeOff := br.Pos()
	valueSize := br.Int32()
	br.AssertInt32(4)
	readMarker(br, 0x34)
	valueStart := br.Pos()
	p.Value = decodeValue(br, typ)
	if br.Err() == nil && br.Pos()-valueStart != int(valueSize) {
		br.Fail(bxio.MismatchError{
			Offset:   int64(sizeOff),
			Expected: []int64{int64(br.Pos() - valueStart)},
			Actual:   int64(valueSize),
		})
	}

	readMarker(br, 0x04)
	br.AssertInt32(0)
	return p
}

// decodeValue reads the discriminant, count, and payload of a value whose
// tag is already known from the parameter's type name. The discriminant and
// count must agree with the tag.
func decodeValue(br *bxio.Reader, typ Type) Value {
	br.AssertByte(typ.class())
	br.AssertByte(byte(typ.Arity()))
	switch typ {
	case TypeBool:
		return ValueBool(br.Bool())
	case TypeFloat:
		return ValueFloat(br.Float32())
	case TypeFloat2:
		return ValueFloat2{br.Float32(), br.Float32()}
	case TypeFloat3:
		return ValueFloat3{br.Float32(), br.Float32(), br.Float32()}
	case TypeFloat4:
		return ValueFloat4{br.Float32(), br.Float32(), br.Float32(), br.Float32()}
	case TypeInt:
		return ValueInt(br.Int32())
	case TypeInt2:
		return ValueInt2{br.Int32(), br.Int32()}
	}
	return nil
}

func decodeTexture(br *bxio.Reader) Texture {
	var t Texture
	br.AssertInt32(0)
	t.Aux = br.Int32()
	t.Extended = br.AssertInt32(3, 5) == 5
	readMarker(br, 0xA3)
	t.Type = readMarkedString(br, 0x35)
	t.UVNumber = br.Int32()
	readMarker(br, 0x35)
	t.ShaderDataIndex = br.Int32()
	if t.Extended {
		t.Path = readMarkedString(br, 0xBA)
		t.Floats = br.Float32s(br.Count())
	}
	return t
}
