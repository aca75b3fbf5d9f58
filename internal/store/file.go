package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const snapshotExt = ".yml"

// FileStore keeps each session as dir/sessions/NAME.yml.
type FileStore struct {
	dir string
}

// NewFileStore creates the sessions directory under dir.
func NewFileStore(dir string) (*FileStore, error) {
	sessions := filepath.Join(dir, "sessions")
	if err := os.MkdirAll(sessions, 0750); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &FileStore{dir: sessions}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+snapshotExt)
}

// Save writes the snapshot through a temp file and rename so a crash never
// leaves a truncated document.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	if err := ValidateName(snap.Name); err != nil {
		return err
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.Name, err)
	}

	dest := s.path(snap.Name)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session %s: %w", snap.Name, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session %s: %w", snap.Name, err)
	}
	return nil
}

// Load reads a snapshot by session name.
func (s *FileStore) Load(_ context.Context, name string) (Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode session %s: %w", name, err)
	}
	return snap, nil
}

// List loads every stored snapshot, most recently updated first. Files that
// fail to decode are skipped.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), snapshotExt) {
			continue
		}
		snap, err := s.Load(ctx, strings.TrimSuffix(f.Name(), snapshotExt))
		if err != nil {
			continue
		}
		entries = append(entries, entryOf(snap))
	}
	sortEntries(entries)
	return entries, nil
}

// Delete removes a stored session.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

func (s *FileStore) Close() error { return nil }
