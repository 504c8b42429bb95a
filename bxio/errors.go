package bxio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Indicates a read past the end of the data.
	ErrShortData = errors.New("unexpected end of data")
	// Indicates a seek outside the data.
	ErrSeekRange = errors.New("seek out of range")
	// Indicates a StepOut without a matching StepIn.
	ErrStepOut = errors.New("step out without step in")
	// Indicates nonzero bytes where alignment padding is required.
	ErrDirtyPadding = errors.New("nonzero alignment padding")
	// Indicates a negative element count.
	ErrNegativeCount = errors.New("negative count")
)

// StreamError wraps an error that occurred at a byte offset.
type StreamError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err StreamError) Error() string {
	if err.Cause == nil {
		return fmt.Sprintf("stream error at %#x", err.Offset)
	}
	return fmt.Sprintf("%s at %#x", err.Cause.Error(), err.Offset)
}

func (err StreamError) Unwrap() error {
	return err.Cause
}

// MismatchError indicates an asserted numeric field whose value is outside
// the allowed set.
type MismatchError struct {
	// Offset is the byte offset of the field.
	Offset int64
	// Expected is the set of allowed values.
	Expected []int64
	// Actual is the value that was read.
	Actual int64
}

func (err MismatchError) Error() string {
	if len(err.Expected) == 1 {
		return fmt.Sprintf("assert failed at %#x: expected %#x, got %#x", err.Offset, err.Expected[0], err.Actual)
	}
	var s strings.Builder
	fmt.Fprintf(&s, "assert failed at %#x: expected one of", err.Offset)
	for _, v := range err.Expected {
		fmt.Fprintf(&s, " %#x", v)
	}
	fmt.Fprintf(&s, ", got %#x", err.Actual)
	return s.String()
}

// MagicError indicates an asserted string field that did not match.
type MagicError struct {
	// Offset is the byte offset of the field.
	Offset int64
	// Expected is the set of allowed strings.
	Expected []string
	// Actual is the string that was read.
	Actual string
}

func (err MagicError) Error() string {
	if len(err.Expected) == 1 {
		return fmt.Sprintf("assert failed at %#x: expected %q, got %q", err.Offset, err.Expected[0], err.Actual)
	}
	var s strings.Builder
	fmt.Fprintf(&s, "assert failed at %#x: expected one of", err.Offset)
	for _, v := range err.Expected {
		fmt.Fprintf(&s, " %q", v)
	}
	fmt.Fprintf(&s, ", got %q", err.Actual)
	return s.String()
}

// FillError indicates a reservation that was filled twice, never filled, or
// never reserved.
type FillError struct {
	// Name is the reservation name.
	Name string

	Cause error
}

func (err FillError) Error() string {
	return fmt.Sprintf("reservation %q: %s", err.Name, err.Cause.Error())
}

func (err FillError) Unwrap() error {
	return err.Cause
}

var (
	errNotReserved = errors.New("not reserved")
	errNotFilled   = errors.New("not filled")
)
