package titration

import (
	"errors"
	"strings"
)

var (
	// ErrMissingField means a field required by the request's mode is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidInput covers malformed readings, zero time deltas and
	// negative or non-finite BG and rate values.
	ErrInvalidInput = errors.New("invalid input")
)

// FieldError names the fields missing from a request.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "missing field(s): " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error { return ErrMissingField }
