package mediastore

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another owner
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDependency is returned when the object store or metadata store fails
	ErrDependency = errors.New("dependency error")
	// ErrConflict is returned when a record already exists at the same key
	ErrConflict = errors.New("conflict")
)

// ValidationError carries every policy violation found for a declared file.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "file validation failed: " + strings.Join(e.Messages(), "; ")
}

// Is reports ErrInvalidInput so callers can branch without a type assertion.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Messages returns the human readable violation messages in rule order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return msgs
}
