package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Validation failures are detected locally before any store
// round-trip; the rest classify failures of external lookups and writes.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrNoInvite   = errors.New("no invite for this email")
	ErrForbidden  = errors.New("forbidden")
)

// ValidationError wraps ErrValidation with the offending field.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// PersistenceError marks an external store or identity-provider rejection.
// It is surfaced to the caller, never retried automatically.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
