package mtd

// MTD is a material definition: a shader binding plus the parameters and
// texture slots the shader expects.
type MTD struct {
	// ShaderPath is the path to the shader source, stored verbatim.
	ShaderPath string

	// Description is a free-form comment, often empty.
	Description string

	// Params are the shader parameters, in file order.
	Params []Param

	// Textures are the texture slots, in file order.
	Textures []Texture
}

// New returns an empty MTD ready for authoring.
func New() *MTD {
	return &MTD{
		Params:   []Param{},
		Textures: []Texture{},
	}
}

// Param is a typed shader parameter.
type Param struct {
	// Name identifies the parameter to the shader.
	Name string

	// Value carries the parameter's value; its shape fixes the type tag.
	Value Value

	// Aux is preserved verbatim. Its meaning is unknown; upstream notes
	// suggest a struct size, but observed values are inconsistent.
	Aux int32
}

// Type returns the tag of the parameter's value, or TypeInvalid if the
// parameter has no value.
func (p Param) Type() Type {
	if p.Value == nil {
		return TypeInvalid
	}
	return p.Value.Type()
}

// NewParam returns a Param of the given type holding its zero value.
func NewParam(name string, typ Type) Param {
	return Param{Name: name, Value: NewValue(typ)}
}

// Texture is a texture slot. Extended slots additionally carry a path and a
// float sequence; non-extended slots store neither in the byte stream.
type Texture struct {
	// Type identifies the slot to the shader, like "g_DiffuseTexture".
	Type string

	// Extended indicates whether Path and Floats are present.
	Extended bool

	// UVNumber selects the UV channel sampled by the slot.
	UVNumber int32

	// ShaderDataIndex is the slot's index in the shader's data table.
	ShaderDataIndex int32

	// Path is the texture file path. Extended slots only.
	Path string

	// Floats are additional shader constants. Extended slots only.
	Floats []float32

	// Aux is preserved verbatim, like Param.Aux.
	Aux int32
}

// NewTexture returns a non-extended Texture for the given slot type.
func NewTexture(typ string) Texture {
	return Texture{Type: typ}
}

// validate reports a value that cannot be encoded. It is checked before
// encoding emits any bytes.
func (p Param) validate() error {
	switch p.Value.(type) {
	case ValueBool, ValueFloat, ValueFloat2, ValueFloat3, ValueFloat4, ValueInt, ValueInt2:
		return nil
	}
	return ShapeError{Name: p.Name, Value: p.Value}
}

func (m *MTD) validate() error {
	for _, p := range m.Params {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}
