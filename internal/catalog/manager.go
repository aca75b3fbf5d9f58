package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/util"
	"gopkg.in/yaml.v3"
)

// ErrNoCatalog is returned by Manager.Load before any extract was imported.
var ErrNoCatalog = errors.New("no catalog imported")

// Meta describes the currently imported extract.
type Meta struct {
	Source     string `yaml:"source"`
	File       string `yaml:"file"`
	SHA256     string `yaml:"sha256"`
	Records    int    `yaml:"records"`
	ImportedAt string `yaml:"imported_at"`
}

// Manager keeps the imported catalog extract inside the data directory.
// It centralizes the pattern of validate → copy → record metadata.
type Manager struct {
	dir  string
	cols Columns
}

// NewManager creates a catalog manager rooted at dir.
func NewManager(dir string, cols Columns) *Manager {
	return &Manager{dir: dir, cols: cols}
}

func (m *Manager) metaPath() string {
	return filepath.Join(m.dir, "catalog.yml")
}

// Import validates src and replaces the stored extract with it.
// A rejected file leaves the previous extract in place.
func (m *Manager) Import(src string) (*Meta, error) {
	records, err := Import(src, m.cols)
	if err != nil {
		return nil, err
	}

	file := "catalog" + strings.ToLower(filepath.Ext(src))
	if err := util.CopyFile(src, filepath.Join(m.dir, file)); err != nil {
		return nil, fmt.Errorf("storing catalog: %w", err)
	}
	sum, err := util.SHA256File(src)
	if err != nil {
		return nil, fmt.Errorf("hashing catalog: %w", err)
	}

	meta := &Meta{
		Source:     src,
		File:       file,
		SHA256:     sum,
		Records:    Build(records).Len(),
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog metadata: %w", err)
	}
	if err := os.WriteFile(m.metaPath(), data, 0600); err != nil {
		return nil, fmt.Errorf("writing catalog metadata: %w", err)
	}
	return meta, nil
}

// Meta returns metadata of the stored extract.
func (m *Manager) Meta() (*Meta, error) {
	data, err := os.ReadFile(m.metaPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCatalog
		}
		return nil, fmt.Errorf("reading catalog metadata: %w", err)
	}
	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing catalog metadata: %w", err)
	}
	return &meta, nil
}

// Load builds an Index from the stored extract.
func (m *Manager) Load() (*Index, *Meta, error) {
	meta, err := m.Meta()
	if err != nil {
		return nil, nil, err
	}
	records, err := Import(filepath.Join(m.dir, meta.File), m.cols)
	if err != nil {
		return nil, nil, err
	}
	return Build(records), meta, nil
}
