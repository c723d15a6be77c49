package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned when an operation names a record id
	// that does not exist in the collection.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicatePRNumber is returned when a procurement would reuse a PR
	// number already on file.
	ErrDuplicatePRNumber = errors.New("duplicate PR number")
)

// ValidationError reports a rejected field on create or update. The record
// is left unchanged when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a field validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
