// Package store persists session snapshots. Backends implement Port; the
// file backend keeps one YAML document per session and the SQLite backend
// keeps one JSON blob per session row.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/session"
)

// ErrNotFound is returned when no snapshot exists for a session name.
var ErrNotFound = errors.New("session not found")

// Snapshot is the persisted shape of a session.
type Snapshot = session.State

// Entry summarizes a stored session for listings.
type Entry struct {
	Name         string    `json:"name"`
	LibraryCode  string    `json:"library_code"`
	LocationCode string    `json:"location_code,omitempty"`
	Events       int       `json:"events"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Port is the session persistence boundary.
type Port interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, name string) (Snapshot, error)
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend selected by name. dir is the data directory;
// sqlitePath overrides the database location for the sqlite backend.
func Open(backend, dir, sqlitePath string) (Port, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir)
	case BackendSQLite:
		if sqlitePath == "" {
			sqlitePath = DefaultSQLitePath(dir)
		}
		return NewSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: file, sqlite)", backend)
	}
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName checks that a session name is usable as a file name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid session name %q: use letters, digits, dot, dash or underscore", name)
	}
	return nil
}

func entryOf(snap Snapshot) Entry {
	return Entry{
		Name:         snap.Name,
		LibraryCode:  snap.LibraryCode,
		LocationCode: snap.LocationCode,
		Events:       len(snap.Events),
		UpdatedAt:    snap.UpdatedAt,
	}
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].Name < entries[j].Name
	})
}
