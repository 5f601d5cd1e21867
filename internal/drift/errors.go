package drift

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying failures across layers with errors.Is.
var (
	// ErrValidation marks a bad argument value.
	ErrValidation = errors.New("validation failed")

	// ErrType marks a wrong data kind.
	ErrType = errors.New("type mismatch")
)

// ValidationError reports a bad argument value: an empty sample, a
// non-positive threshold, an unsupported metric name, a missing field, or
// a window bound violation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TypeError reports a wrong data kind: categorical data given to a
// numerical-only metric, continuous data given to the categorical-only
// metric, or a missing record given to the alert generator.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrType.
func (e *TypeError) Unwrap() error { return ErrType }

// NewTypeError builds a TypeError from a format string.
func NewTypeError(format string, args ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}
