// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or input fails validation.
	// ValidationErrors wraps it so callers can match with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)

// FieldError describes a single violated field constraint.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface for FieldError.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field violation found while checking an input.
// It is returned as a single error so that a caller sees all problems at once.
type ValidationErrors struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationErrors holding one violation.
func NewValidationError(field, message string) *ValidationErrors {
	return &ValidationErrors{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add records a violation for field.
func (e *ValidationErrors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no violations were recorded.
func (e *ValidationErrors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Messages returns the human readable message of every violation, in order.
func (e *ValidationErrors) Messages() []string {
	if e == nil {
		return nil
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// Error implements the error interface for ValidationErrors.
func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation so errors.Is(err, ErrValidation) holds.
func (e *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// errOrNil converts an empty ValidationErrors to a nil error.
func (e *ValidationErrors) errOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}
