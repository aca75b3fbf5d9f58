package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const currentFile = "current"

// Current returns the name of the active session in dir, or "" if none
// has been selected.
func Current(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, currentFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SetCurrent marks name as the active session in dir.
func SetCurrent(dir, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, currentFile), []byte(name+"\n"), 0600)
}
