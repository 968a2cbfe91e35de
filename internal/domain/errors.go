package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrInvalidReference is returned when a caller passes an unknown source,
	// medium, entity or entity kind.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDuplicateEvent is returned when an event UUID is already taken and
	// duplicates were not requested to be ignored.
	ErrDuplicateEvent = errors.New("duplicate event")

	// ErrRendererNotResolved is returned when an event is rendered or
	// serialized for a medium whose contexts and renderers were never loaded.
	ErrRendererNotResolved = errors.New("renderer not resolved")

	// ErrMisconfiguredContextLoader is returned when a source names a context
	// loader that is not registered.
	ErrMisconfiguredContextLoader = errors.New("misconfigured context loader")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
