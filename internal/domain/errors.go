package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, adapters, and transport.
// Transport maps them to HTTP statuses; adapters translate driver
// errors into them so services never see pgconn details.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// FieldError names a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates field-level validation failures so the
// transport can report every offending field at once.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

// Unwrap makes errors.Is(err, ErrValidation) work for wrapped instances.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// NewValidationErrors builds a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Append adds one field error, allocating on a nil receiver so callers
// can accumulate with `ve = ve.Append(...)`.
func (e *ValidationError) Append(field, message string) *ValidationError {
	if e == nil {
		e = &ValidationError{}
	}
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
	return e
}

// Merge folds another accumulator in; either side may be nil.
func (e *ValidationError) Merge(other *ValidationError) *ValidationError {
	if other == nil || len(other.Errors) == 0 {
		return e
	}
	if e == nil {
		e = &ValidationError{}
	}
	e.Errors = append(e.Errors, other.Errors...)
	return e
}

// OrNil returns the accumulator as an error, or nil when empty. A
// typed nil *ValidationError must never escape as a non-nil error.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
