package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrConcurrencyConflict = errors.New("rent-out was modified by another request")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// ValidationError is a rejected business rule. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError names the missing entity and matches ErrNotFound.
func NotFoundError(entity string, id int32) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
