package cdf

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when a document cannot be tokenized.
	// Callers degrade to an empty or unchanged result.
	ErrMalformed = errors.New("malformed component description")

	// ErrInvalidName is returned when a replacement name cannot be written
	// inside a quoted string.
	ErrInvalidName = errors.New("invalid pin name")
)

// DecodingError reports a document that cannot be read in the expected
// character set.
type DecodingError struct {
	Path    string
	Charset string
	Err     error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%s: cannot decode as %s: %v", e.Path, e.Charset, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// EncodingError reports text that cannot be written in the target
// character set, typically a replacement name outside of it.
type EncodingError struct {
	Path    string
	Charset string
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: cannot encode as %s: %v", e.Path, e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
