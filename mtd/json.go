package mtd

import (
	"encoding/json"
	"fmt"
)

// The JSON projection is what the command line tools read and write. It
// carries every field of the record, so a JSON round trip is lossless.

type jsonMTD struct {
	ShaderPath  string        `json:"shaderPath"`
	Description string        `json:"description"`
	Params      []Param       `json:"params"`
	Textures    []jsonTexture `json:"textures"`
}

type jsonParam struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
	Aux   int32           `json:"aux"`
}

type jsonTexture struct {
	Type            string    `json:"type"`
	Extended        bool      `json:"extended,omitempty"`
	UVNumber        int32     `json:"uvNumber"`
	ShaderDataIndex int32     `json:"shaderDataIndex"`
	Path            string    `json:"path,omitempty"`
	Floats          []float32 `json:"floats,omitempty"`
	Aux             int32     `json:"aux"`
}

func (m *MTD) MarshalJSON() ([]byte, error) {
	textures := make([]jsonTexture, len(m.Textures))
	for i, t := range m.Textures {
		textures[i] = jsonTexture(t)
	}
	return json.Marshal(jsonMTD{
		ShaderPath:  m.ShaderPath,
		Description: m.Description,
		Params:      m.Params,
		Textures:    textures,
	})
}

func (m *MTD) UnmarshalJSON(b []byte) error {
	var v jsonMTD
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	m.ShaderPath = v.ShaderPath
	m.Description = v.Description
	m.Params = v.Params
	m.Textures = make([]Texture, len(v.Textures))
	for i, t := range v.Textures {
		m.Textures[i] = Texture(t)
	}
	if m.Params == nil {
		m.Params = []Param{}
	}
	return nil
}

func (p Param) MarshalJSON() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	value, err := json.Marshal(p.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonParam{
		Name:  p.Name,
		Type:  p.Value.Type().String(),
		Value: value,
		Aux:   p.Aux,
	})
}

func (p *Param) UnmarshalJSON(b []byte) error {
	var v jsonParam
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	typ, ok := parseType(v.Type)
	if !ok {
		return UnknownTagError{Tag: v.Type}
	}
	value, err := unmarshalValue(typ, v.Value)
	if err != nil {
		return fmt.Errorf("param %q: %w", v.Name, err)
	}
	p.Name = v.Name
	p.Value = value
	p.Aux = v.Aux
	return nil
}

// unmarshalValue decodes a JSON value against the shape its tag requires.
// An element count that disagrees with the tag is an error, never padded or
// truncated.
func unmarshalValue(typ Type, b json.RawMessage) (Value, error) {
	badArity := func(n int) error {
		return fmt.Errorf("%s value has %d elements, want %d", typ, n, typ.Arity())
	}
	switch typ {
	case TypeBool:
		var v ValueBool
		return v, json.Unmarshal(b, &v)
	case TypeFloat:
		var v ValueFloat
		return v, json.Unmarshal(b, &v)
	case TypeInt:
		var v ValueInt
		return v, json.Unmarshal(b, &v)
	case TypeInt2:
		var is []int32
		if err := json.Unmarshal(b, &is); err != nil {
			return nil, err
		}
		if len(is) != 2 {
			return nil, badArity(len(is))
		}
		return ValueInt2{is[0], is[1]}, nil
	}
	var vs []float32
	if err := json.Unmarshal(b, &vs); err != nil {
		return nil, err
	}
	if len(vs) != typ.Arity() {
		return nil, badArity(len(vs))
	}
	switch typ {
	case TypeFloat2:
		return ValueFloat2{vs[0], vs[1]}, nil
	case TypeFloat3:
		return ValueFloat3{vs[0], vs[1], vs[2]}, nil
	default:
		return ValueFloat4{vs[0], vs[1], vs[2], vs[3]}, nil
	}
}
