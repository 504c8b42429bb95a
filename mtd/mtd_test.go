package mtd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nex3/SoulsFormats/bxio"
	"github.com/nex3/SoulsFormats/errors"
)

func testMTD() *MTD {
	m := New()
	m.ShaderPath = "Mtd/Test.spx"
	p := NewParam("g_test", TypeFloat)
	p.Value = ValueFloat(0.5)
	m.Params = append(m.Params, p)
	m.Textures = append(m.Textures, NewTexture("g_DiffuseTexture"))
	return m
}

func TestRoundTripScenario(t *testing.T) {
	r := require.New(t)
	m := testMTD()

	data, err := EncodeBytes(m)
	r.NoError(err)
	got, err := DecodeBytes(data)
	r.NoError(err)

	r.Equal("Mtd/Test.spx", got.ShaderPath)
	r.Equal("", got.Description)
	r.Len(got.Params, 1)
	r.Equal("g_test", got.Params[0].Name)
	r.Equal(TypeFloat, got.Params[0].Type())
	r.Equal(ValueFloat(0.5), got.Params[0].Value)
	r.Len(got.Textures, 1)
	r.Equal("g_DiffuseTexture", got.Textures[0].Type)
	r.False(got.Textures[0].Extended)
	r.Equal(m, got)
}

func TestRoundTripAllParamTypes(t *testing.T) {
	r := require.New(t)
	m := New()
	for _, typ := range allTypes {
		m.Params = append(m.Params, NewParam("g_"+typ.String(), typ))
	}

	data, err := EncodeBytes(m)
	r.NoError(err)
	got, err := DecodeBytes(data)
	r.NoError(err)

	r.Len(got.Params, len(allTypes))
	for i, typ := range allTypes {
		p := got.Params[i]
		r.Equal("g_"+typ.String(), p.Name)
		r.Equal(typ, p.Type())
		r.Equal(NewValue(typ), p.Value)
	}
}

func TestEncodeDecodeEncodeExact(t *testing.T) {
	r := require.New(t)
	m := New()
	m.ShaderPath = "FRPG_Water_env.spx"
	m.Description = "水面" // Shift-JIS text survives the trip
	p := NewParam("g_LightingType", TypeInt)
	p.Value = ValueInt(1)
	p.Aux = 0x1C
	m.Params = append(m.Params, p)
	p = NewParam("g_Diffuse", TypeFloat3)
	p.Value = ValueFloat3{0.8, 0.7, 0.6}
	m.Params = append(m.Params, p)
	tex := NewTexture("g_Bumpmap")
	tex.UVNumber = 1
	tex.Aux = 0x2C
	m.Textures = append(m.Textures, tex)

	data, err := EncodeBytes(m)
	r.NoError(err)
	got, err := DecodeBytes(data)
	r.NoError(err)
	again, err := EncodeBytes(got)
	r.NoError(err)
	r.Equal(data, again, "encode(decode(bytes)) must reproduce bytes")
	r.Equal(m, got)
}

func TestExtendedTexture(t *testing.T) {
	r := require.New(t)
	m := New()
	tex := NewTexture("g_DiffuseTexture")
	tex.Extended = true
	tex.Path = "tex/foo.tga"
	tex.Floats = []float32{1.0, 2.0}
	m.Textures = append(m.Textures, tex)

	data, err := EncodeBytes(m)
	r.NoError(err)
	got, err := DecodeBytes(data)
	r.NoError(err)
	r.True(got.Textures[0].Extended)
	r.Equal("tex/foo.tga", got.Textures[0].Path)
	r.Equal([]float32{1.0, 2.0}, got.Textures[0].Floats)

	// The same slot without the extended flag stores neither field.
	m.Textures[0].Extended = false
	plain, err := EncodeBytes(m)
	r.NoError(err)
	r.Less(len(plain), len(data))
	got, err = DecodeBytes(plain)
	r.NoError(err)
	r.False(got.Textures[0].Extended)
	r.Equal("", got.Textures[0].Path)
	r.Empty(got.Textures[0].Floats)
}

func TestDecodeStructuralMismatch(t *testing.T) {
	r := require.New(t)
	data, err := EncodeBytes(testMTD())
	r.NoError(err)

	// Spec version field sits right after the marked magic string.
	bad := append([]byte(nil), data...)
	bad[0x30] = 0xE7 // 1000 -> 999
	_, err = DecodeBytes(bad)
	r.Error(err)
	var merr bxio.MismatchError
	r.True(errors.As(err, &merr), "got %v", err)
	r.Equal(int64(0x30), merr.Offset)
	r.Equal([]int64{1000}, merr.Expected)
	r.Equal(int64(999), merr.Actual)
}

func TestDecodeDirtyPadding(t *testing.T) {
	r := require.New(t)
	data, err := EncodeBytes(testMTD())
	r.NoError(err)
	bad := append([]byte(nil), data...)
	bad[0x0D] = 0xFF // padding of the first marker
	_, err = DecodeBytes(bad)
	r.Error(err)
	r.True(errors.Is(err, bxio.ErrDirtyPadding), "got %v", err)
}

func TestDecodeTrailingData(t *testing.T) {
	r := require.New(t)
	data, err := EncodeBytes(testMTD())
	r.NoError(err)
	_, err = DecodeBytes(append(data, 0))
	r.Error(err)
	r.True(errors.Is(err, ErrTrailingData), "got %v", err)

	_, err = DecodeBytes(data[:0x20])
	r.Error(err)
}

func TestDecodeUnknownTag(t *testing.T) {
	r := require.New(t)
	m := New()
	m.Params = append(m.Params, NewParam("p", TypeFloat))
	data, err := EncodeBytes(m)
	r.NoError(err)

	bad := bytes.Replace(data, []byte("float"), []byte("blorp"), 1)
	_, err = DecodeBytes(bad)
	r.Error(err)
	var terr UnknownTagError
	r.True(errors.As(err, &terr), "got %v", err)
	r.Equal("blorp", terr.Tag)
	var perr ParamError
	r.True(errors.As(err, &perr), "got %v", err)
	r.Equal(0, perr.Index)
	r.Equal("p", perr.Name)
}

func TestDecodeParamContext(t *testing.T) {
	r := require.New(t)
	m := New()
	p := NewParam("g_x", TypeFloat)
	m.Params = append(m.Params, p)
	data, err := EncodeBytes(m)
	r.NoError(err)

	// Corrupt the value's class discriminant, which follows the value
	// block's version assert and marker.
	idx := bytes.Index(data, []byte{0x04, 0x00, 0x00, 0x00, 0x34, 0x00, 0x00, 0x00})
	r.GreaterOrEqual(idx, 0)
	bad := append([]byte(nil), data...)
	bad[idx+8] = 9
	_, err = DecodeBytes(bad)
	r.Error(err)
	var perr ParamError
	r.True(errors.As(err, &perr), "got %v", err)
	r.Equal("g_x", perr.Name)
	var merr bxio.MismatchError
	r.True(errors.As(err, &merr), "got %v", err)
	r.Equal(int64(9), merr.Actual)
}

func TestEncodePrecondition(t *testing.T) {
	r := require.New(t)
	m := New()
	m.Params = append(m.Params, Param{Name: "empty"})

	var buf bytes.Buffer
	err := Encode(&buf, m)
	r.Error(err)
	var serr ShapeError
	r.True(errors.As(err, &serr), "got %v", err)
	r.Equal("empty", serr.Name)
	r.Zero(buf.Len(), "a failed encode must not emit bytes")
}

func TestJSONRoundTrip(t *testing.T) {
	r := require.New(t)
	m := New()
	m.ShaderPath = "Mtd/Test.spx"
	for _, typ := range allTypes {
		m.Params = append(m.Params, NewParam("g_"+typ.String(), typ))
	}
	tex := NewTexture("g_DiffuseTexture")
	tex.Extended = true
	tex.Path = "tex/foo.tga"
	tex.Floats = []float32{1, 2}
	m.Textures = append(m.Textures, tex)

	b, err := json.Marshal(m)
	r.NoError(err)
	got := new(MTD)
	r.NoError(json.Unmarshal(b, got))
	r.Equal(m, got)
}

func TestJSONBadArity(t *testing.T) {
	r := require.New(t)
	var p Param
	err := json.Unmarshal([]byte(`{"name":"g_v","type":"float2","value":[1],"aux":0}`), &p)
	r.Error(err)
	err = json.Unmarshal([]byte(`{"name":"g_v","type":"blorp","value":[1],"aux":0}`), &p)
	r.Error(err)
}
