package mtd

import (
	"testing"
)

var allTypes = []Type{
	TypeBool,
	TypeFloat,
	TypeFloat2,
	TypeFloat3,
	TypeFloat4,
	TypeInt,
	TypeInt2,
}

func TestTypeStrings(t *testing.T) {
	want := map[Type]string{
		TypeBool:   "bool",
		TypeFloat:  "float",
		TypeFloat2: "float2",
		TypeFloat3: "float3",
		TypeFloat4: "float4",
		TypeInt:    "int",
		TypeInt2:   "int2",
	}
	for typ, name := range want {
		if s := typ.String(); s != name {
			t.Errorf("%d.String: got %q, want %q", typ, s, name)
		}
		parsed, ok := parseType(name)
		if !ok || parsed != typ {
			t.Errorf("parseType(%q): got %v, %v", name, parsed, ok)
		}
	}
	if s := TypeInvalid.String(); s != "Invalid" {
		t.Errorf("TypeInvalid.String: got %q", s)
	}
	if _, ok := parseType("double"); ok {
		t.Error("parseType accepted \"double\"")
	}
}

func TestTypeArity(t *testing.T) {
	want := map[Type]int{
		TypeBool:   1,
		TypeFloat:  1,
		TypeFloat2: 2,
		TypeFloat3: 3,
		TypeFloat4: 4,
		TypeInt:    1,
		TypeInt2:   2,
	}
	for typ, n := range want {
		if a := typ.Arity(); a != n {
			t.Errorf("%s.Arity: got %d, want %d", typ, a, n)
		}
	}
	if a := TypeInvalid.Arity(); a != 0 {
		t.Errorf("TypeInvalid.Arity: got %d", a)
	}
}

func TestTypeClass(t *testing.T) {
	want := map[Type]byte{
		TypeBool:   classBool,
		TypeFloat:  classFloat,
		TypeFloat2: classFloat,
		TypeFloat3: classFloat,
		TypeFloat4: classFloat,
		TypeInt:    classInt,
		TypeInt2:   classInt,
	}
	for typ, c := range want {
		if got := typ.class(); got != c {
			t.Errorf("%s.class: got %d, want %d", typ, got, c)
		}
	}
}

func TestNewValue(t *testing.T) {
	for _, typ := range allTypes {
		v := NewValue(typ)
		if v == nil {
			t.Errorf("NewValue(%s): got nil", typ)
			continue
		}
		if v.Type() != typ {
			t.Errorf("NewValue(%s).Type: got %s", typ, v.Type())
		}
	}
	if v := NewValue(TypeInvalid); v != nil {
		t.Errorf("NewValue(TypeInvalid): got %v", v)
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{ValueBool(true), "true"},
		{ValueBool(false), "false"},
		{ValueFloat(0.5), "0.5"},
		{ValueFloat2{1, 2}, "1, 2"},
		{ValueFloat3{1, 2, 3}, "1, 2, 3"},
		{ValueFloat4{1, 2, 3, 4}, "1, 2, 3, 4"},
		{ValueInt(-7), "-7"},
		{ValueInt2{5, 6}, "5, 6"},
	}
	for _, c := range cases {
		if s := c.value.String(); s != c.want {
			t.Errorf("%s value: got %q, want %q", c.value.Type(), s, c.want)
		}
	}
}
