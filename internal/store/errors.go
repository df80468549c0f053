package store

import (
	"errors"
	"fmt"
)

// Errors returned by stores.
var (
	// ErrNotFound indicates no record exists for the player ID.
	ErrNotFound = errors.New("player record not found")

	// ErrInvalidID indicates a player ID that cannot name a record.
	ErrInvalidID = errors.New("invalid player ID")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store closed")
)

// MigrationError reports a legacy record that could not be converted.
type MigrationError struct {
	ID  string
	Err error
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrating record %q: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *MigrationError) Unwrap() error {
	return e.Err
}
