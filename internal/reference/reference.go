// Package reference holds the code → display name tables for libraries and
// locations. Tables are shipped with the catalog and extended by the user.
package reference

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table maps a code to its display name.
type Table map[string]string

// Name returns the display name of code.
func (t Table) Name(code string) (string, bool) {
	name, ok := t[code]
	return name, ok
}

// Display returns the display name of code, or the code itself when the
// table has no entry for it.
func (t Table) Display(code string) string {
	if name, ok := t[code]; ok && name != "" {
		return name
	}
	return code
}

// Codes returns all codes in ascending order. Numeric codes sort by value.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		a, errA := strconv.Atoi(codes[i])
		b, errB := strconv.Atoi(codes[j])
		if errA == nil && errB == nil && a != b {
			return a < b
		}
		return codes[i] < codes[j]
	})
	return codes
}

// WithCodes returns a copy of t that also holds every code in codes.
// Codes added this way have no name and display as themselves.
func (t Table) WithCodes(codes []string) Table {
	out := make(Table, len(t)+len(codes))
	for c, name := range t {
		out[c] = name
	}
	for _, c := range codes {
		if _, ok := out[c]; !ok && c != "" {
			out[c] = ""
		}
	}
	return out
}

// Set is the pair of reference tables stored alongside the sessions.
type Set struct {
	Libraries Table `yaml:"libraries"`
	Locations Table `yaml:"locations"`
}

// AddLibrary adds or renames a library code.
func (s *Set) AddLibrary(code, name string) error {
	code = strings.TrimSpace(code)
	if _, err := strconv.Atoi(code); err != nil {
		return fmt.Errorf("library code %q must be numeric", code)
	}
	if s.Libraries == nil {
		s.Libraries = Table{}
	}
	s.Libraries[code] = strings.TrimSpace(name)
	return nil
}

// AddLocation adds or renames a location code.
func (s *Set) AddLocation(code, name string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("location code must not be empty")
	}
	if s.Locations == nil {
		s.Locations = Table{}
	}
	s.Locations[code] = strings.TrimSpace(name)
	return nil
}

// Load reads a reference file. A missing file yields empty tables.
func Load(path string) (*Set, error) {
	s := &Set{Libraries: Table{}, Locations: Table{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading references: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing references YAML: %w", err)
	}
	if s.Libraries == nil {
		s.Libraries = Table{}
	}
	if s.Locations == nil {
		s.Locations = Table{}
	}
	return s, nil
}

// Save writes the reference tables to path.
func Save(path string, s *Set) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding references: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}
