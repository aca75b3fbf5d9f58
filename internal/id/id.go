// Package id generates prefixed identifiers for ledger entries.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ScanPrefix prefixes scan event identifiers.
const ScanPrefix = "scan"

// Generate creates a prefixed NanoID, e.g. "scan-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}
