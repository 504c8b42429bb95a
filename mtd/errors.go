package mtd

import (
	"errors"
	"fmt"
)

var (
	// Indicates bytes remaining after the record's footer.
	ErrTrailingData = errors.New("trailing data after record")
)

// UnknownTagError indicates a parameter type name not known by the codec.
type UnknownTagError struct {
	// Tag is the type name as it appears in the byte stream.
	Tag string
}

func (err UnknownTagError) Error() string {
	return fmt.Sprintf("unknown param type %q", err.Tag)
}

// ShapeError indicates a parameter whose value cannot be encoded because it
// is nil or not one of the seven value types. It is reported before any
// bytes are written.
type ShapeError struct {
	// Name is the parameter's name.
	Name string
	// Value is the offending value.
	Value Value
}

func (err ShapeError) Error() string {
	if err.Value == nil {
		return fmt.Sprintf("param %q has no value", err.Name)
	}
	return fmt.Sprintf("param %q: %T is not a param value type", err.Name, err.Value)
}

// ParamError wraps an error that occurred while decoding a parameter.
type ParamError struct {
	// Index is the position of the parameter within the record.
	Index int
	// Name is the parameter's name, if it was read before the failure.
	Name string

	Cause error
}

func (err ParamError) Error() string {
	if err.Name == "" {
		return fmt.Sprintf("param #%d: %s", err.Index, err.Cause.Error())
	}
	return fmt.Sprintf("param #%d %q: %s", err.Index, err.Name, err.Cause.Error())
}

func (err ParamError) Unwrap() error {
	return err.Cause
}

// TextureError wraps an error that occurred while decoding a texture slot.
type TextureError struct {
	// Index is the position of the slot within the record.
	Index int

	Cause error
}

func (err TextureError) Error() string {
	return fmt.Sprintf("texture #%d: %s", err.Index, err.Cause.Error())
}

func (err TextureError) Unwrap() error {
	return err.Cause
}
