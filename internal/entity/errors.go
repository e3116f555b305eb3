package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned when an input document does not have the expected shape.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingField is matched by MissingFieldError.
	ErrMissingField = errors.New("missing required field")

	// ErrIO is matched by IOError.
	ErrIO = errors.New("i/o failure")
)

// MissingFieldError reports a required channel field that is absent from the metadata document.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// IOError wraps a failure to read an input or write an output.
type IOError struct {
	// Op describes what was attempted, e.g. "open metadata document".
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("could not %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
