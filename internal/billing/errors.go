package billing

import (
	"errors"
	"fmt"
)

// Common billing errors
var (
	// ErrNegativeInput is returned when hours or an hourly rate are below zero.
	// Upstream input checks should prevent this; the calculator rejects rather than clamps.
	ErrNegativeInput = errors.New("negative billing input")

	// ErrInvalidMonth is returned when a month key is not in YYYY-MM form.
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

	// ErrInvalidDate is returned when a log date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// ValidationError represents a rejected billing input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}
