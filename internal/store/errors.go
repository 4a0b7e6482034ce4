package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a primary-key lookup matches nothing.
// Callers decide how to surface it (404, create-if-absent, ...).
var ErrNotFound = errors.New("record not found")

// ErrInvalidField is returned when a caller names a field that is not a
// plain column identifier.
var ErrInvalidField = errors.New("invalid field name")

// StorageError wraps a failure from the underlying database. The enclosing
// operation has already been rolled back in full when one is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
