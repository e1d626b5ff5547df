package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a recipe, user, ingredient or token does
	// not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when an anonymous caller attempts a
	// mutation.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrPermissionDenied is returned when an authenticated caller mutates a
	// recipe they do not own.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict is returned when a relation already exists, is absent on
	// removal, or a user subscribes to themselves.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a rejected input field. It never wraps a partial
// write: validation runs before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func conflictErr(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}
