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
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")

	// Session lifecycle.
	ErrAlreadyOpenSession = errors.New("an open session already exists")
	ErrNoOpenSession      = errors.New("no open session")
	ErrUserSuspended      = errors.New("user is suspended")

	// Corrections.
	ErrInvalidTimeRange = errors.New("clock-out must be after clock-in")

	// Account lifecycle.
	ErrAlreadySuspended  = errors.New("user is already suspended")
	ErrNotSuspended      = errors.New("user is not suspended")
	ErrOpenSessionExists = errors.New("user has an open session")

	// Storage boundary. The core never retries on its own; a failed write
	// surfaces here and the whole action is rolled back.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
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

// ForbiddenError carries the attempted action and the role it requires,
// for diagnostics. It unwraps to ErrForbidden.
type ForbiddenError struct {
	Action       string
	RequiredRole Role
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: action %s requires role %s", e.Action, e.RequiredRole)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }
