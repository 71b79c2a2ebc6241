package service

import (
	"errors"
	"fmt"

	"fault-service/internal/parser"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrIncompleteParse  = parser.ErrIncomplete
)

// FieldError reports which submitted field failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, sentinel error, detail string) error {
	return &FieldError{Field: field, Err: fmt.Errorf("%w: %s", sentinel, detail)}
}
