package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
	id         TEXT PRIMARY KEY,
	preset     TEXT NOT NULL DEFAULT '',
	key_group  TEXT NOT NULL DEFAULT '',
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// SQLite stores records in a single SQLite database. The record itself is
// kept as a YAML document; preset and key group are copied into columns so
// they can be queried directly.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures its schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_meta").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion)
		return err
	}

	var ver int
	if err := db.QueryRow("SELECT version FROM schema_meta LIMIT 1").Scan(&ver); err != nil {
		return err
	}
	if ver > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", ver, schemaVersion)
	}
	return nil
}

// Load returns the record for id.
func (s *SQLite) Load(ctx context.Context, id string) (*Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT record FROM players WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading record %q: %w", id, err)
	}

	var rec Record
	if err := yaml.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("parsing record %q: %w", id, err)
	}
	return &rec, nil
}

// Save inserts or replaces the record for rec.ID.
func (s *SQLite) Save(ctx context.Context, rec *Record) error {
	if err := CheckID(rec.ID); err != nil {
		return err
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record %q: %w", rec.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, preset, key_group, record, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			preset = excluded.preset,
			key_group = excluded.key_group,
			record = excluded.record,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Preset, rec.KeyGroup, string(data))
	if err != nil {
		return fmt.Errorf("saving record %q: %w", rec.ID, err)
	}
	return nil
}

// Delete removes the record for id.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every stored ID in order.
func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listing records: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PlayersOnPreset returns the IDs of every record based on tag.
func (s *SQLite) PlayersOnPreset(ctx context.Context, tag string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM players WHERE preset = ? ORDER BY id", tag)
	if err != nil {
		return nil, fmt.Errorf("querying preset %q: %w", tag, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("querying preset %q: %w", tag, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLite)(nil)
