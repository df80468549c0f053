// Package store persists player binding records.
//
// Three backends implement Store: Memory for tests and ephemeral sessions,
// File for one YAML document per player in a directory, and SQLite for a
// single database file. Open picks one from a path.
//
// Stores deal in Records, the serialized form of a player.State. Records
// written by older releases may carry legacy fields; Migrate converts them.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Store loads and saves player records by ID.
type Store interface {
	// Load returns the record for id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Record, error)

	// Save writes rec under rec.ID, replacing any existing record.
	Save(ctx context.Context, rec *Record) error

	// Delete removes the record for id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns every stored ID in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases the store's resources.
	Close() error
}

// Open returns the backend for path: Memory for an empty path, SQLite for a
// file ending in .db, .sqlite or .sqlite3, and File for anything else, which
// is treated as a directory.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemory(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	}
	return NewFile(path)
}

// CheckID returns ErrInvalidID unless id can name a record in every backend.
func CheckID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
