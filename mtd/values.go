package mtd

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Type is the tag of a shader parameter value.
type Type byte

const (
	TypeInvalid Type = iota
	TypeBool
	TypeFloat
	TypeFloat2
	TypeFloat3
	TypeFloat4
	TypeInt
	TypeInt2
)

var typeStrings = map[Type]string{
	TypeBool:   "bool",
	TypeFloat:  "float",
	TypeFloat2: "float2",
	TypeFloat3: "float3",
	TypeFloat4: "float4",
	TypeInt:    "int",
	TypeInt2:   "int2",
}

// String returns the name of the type as it appears in the byte stream. If
// the type is not valid, then the returned value will be "Invalid".
func (t Type) String() string {
	s, ok := typeStrings[t]
	if !ok {
		return "Invalid"
	}
	return s
}

// Valid returns whether t is one of the seven parameter types.
func (t Type) Valid() bool {
	_, ok := typeStrings[t]
	return ok
}

// Arity returns the number of elements a value of type t carries.
func (t Type) Arity() int {
	switch t {
	case TypeBool, TypeFloat, TypeInt:
		return 1
	case TypeFloat2, TypeInt2:
		return 2
	case TypeFloat3:
		return 3
	case TypeFloat4:
		return 4
	}
	return 0
}

// class returns the type-class discriminant stored before a value's payload.
func (t Type) class() byte {
	switch t {
	case TypeBool:
		return classBool
	case TypeInt, TypeInt2:
		return classInt
	default:
		return classFloat
	}
}

const (
	classBool  = 0
	classInt   = 1
	classFloat = 2
)

// parseType maps a type name from the byte stream to its tag.
func parseType(s string) (Type, bool) {
	for t, name := range typeStrings {
		if name == s {
			return t, true
		}
	}
	return TypeInvalid, false
}

// Value holds a parameter value of a particular Type. It is implemented
// only by the seven Value types in this package, one per shape, so a
// value's element count can never disagree with its tag.
type Value interface {
	// Type returns the tag fixed by the value's shape.
	Type() Type

	// String returns a string representation of the current value.
	String() string
}

// NewValue returns the zero Value of the given Type, or nil if typ is not
// valid.
func NewValue(typ Type) Value {
	switch typ {
	case TypeBool:
		return ValueBool(false)
	case TypeFloat:
		return ValueFloat(0)
	case TypeFloat2:
		return ValueFloat2{}
	case TypeFloat3:
		return ValueFloat3{}
	case TypeFloat4:
		return ValueFloat4{}
	case TypeInt:
		return ValueInt(0)
	case TypeInt2:
		return ValueInt2{}
	}
	return nil
}

////////////////////////////////////////////////////////////////
// Values

type ValueBool bool

func (ValueBool) Type() Type {
	return TypeBool
}
func (t ValueBool) String() string {
	if t {
		return "true"
	}
	return "false"
}

////////////////

type ValueFloat float32

func (ValueFloat) Type() Type {
	return TypeFloat
}
func (t ValueFloat) String() string {
	return strconv.FormatFloat(float64(t), 'f', -1, 32)
}

////////////////

type ValueFloat2 mgl32.Vec2

func (ValueFloat2) Type() Type {
	return TypeFloat2
}
func (t ValueFloat2) String() string {
	return joinFloats(t[:])
}

////////////////

type ValueFloat3 mgl32.Vec3

func (ValueFloat3) Type() Type {
	return TypeFloat3
}
func (t ValueFloat3) String() string {
	return joinFloats(t[:])
}

////////////////

type ValueFloat4 mgl32.Vec4

func (ValueFloat4) Type() Type {
	return TypeFloat4
}
func (t ValueFloat4) String() string {
	return joinFloats(t[:])
}

////////////////

type ValueInt int32

func (ValueInt) Type() Type {
	return TypeInt
}
func (t ValueInt) String() string {
	return strconv.FormatInt(int64(t), 10)
}

////////////////

type ValueInt2 [2]int32

func (ValueInt2) Type() Type {
	return TypeInt2
}
func (t ValueInt2) String() string {
	s := make([]string, len(t))
	for i, v := range t {
		s[i] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(s, ", ")
}

////////////////

func joinFloats(vs []float32) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return strings.Join(s, ", ")
}
