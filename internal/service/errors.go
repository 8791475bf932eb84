package service

import (
	"errors"
	"fmt"
)

// Error categories surfaced to callers. None of them is retried here: a
// failed generation may have to be deduplicated before trying again.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a template, target or deadline outside the caller's organization.
	ErrNotFound = errors.New("not found")
	// ErrNoTargets is returned when a target spec resolves to nobody.
	ErrNoTargets = errors.New("no targets resolved")
	// ErrConflict marks a write that clashes with an existing row.
	ErrConflict = errors.New("conflict")
	// ErrPersistence wraps storage failures; the batch was rolled back.
	ErrPersistence = errors.New("persistence failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
