package model

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

var ErrReportNotFound = errors.New("report not found")

// ValidationError names the field and the constraint it violated.
type ValidationError struct {
	Field      string
	Constraint string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validation failed on %s (%s): %s", e.Field, e.Constraint, e.Message)
	}
	return fmt.Sprintf("validation failed on %s (%s)", e.Field, e.Constraint)
}

func NewValidationError(field, constraint, message string) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint, Message: message}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
