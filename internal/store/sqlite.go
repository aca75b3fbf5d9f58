package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// DefaultSQLitePath is the database location used when none is configured.
func DefaultSQLitePath(dir string) string {
	return filepath.Join(dir, "shelfcount.db")
}

// SQLiteStore keeps each session as one JSON payload row.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		name TEXT PRIMARY KEY,
		library_code TEXT NOT NULL,
		location_code TEXT NOT NULL DEFAULT '',
		events INTEGER NOT NULL,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Save upserts the snapshot row.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ValidateName(snap.Name); err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.Name, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions(name,library_code,location_code,events,payload,updated_at)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET
			library_code=excluded.library_code,
			location_code=excluded.location_code,
			events=excluded.events,
			payload=excluded.payload,
			updated_at=excluded.updated_at`,
		snap.Name, snap.LibraryCode, snap.LocationCode, len(snap.Events), payload,
		snap.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", snap.Name, err)
	}
	return nil
}

// Load decodes the payload of a session row.
func (s *SQLiteStore) Load(ctx context.Context, name string) (Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("select session %s: %w", name, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode session %s: %w", name, err)
	}
	return snap, nil
}

// List reads the summary columns without decoding payloads.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, library_code, location_code, events, updated_at FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			updated string
		)
		if err := rows.Scan(&e.Name, &e.LibraryCode, &e.LocationCode, &e.Events, &updated); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Delete removes a session row.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error { return s.db.Close() }
