// Package barcode canonicalizes raw scanner and keyboard input into the
// 12-digit item barcode used by the catalog.
package barcode

import (
	"strconv"
	"strings"
)

// Length is the number of digits in a complete item barcode.
const Length = 12

// prefixOffset is added to a library code to derive its barcode prefix.
const prefixOffset = 1000

// Result is the outcome of normalizing one raw input.
type Result struct {
	Barcode string
	// AutoCompleted is set when short input was expanded with the
	// selected library's prefix.
	AutoCompleted bool
}

// Empty reports whether the input held no digits at all. No scan event
// should be created for an empty result.
func (r Result) Empty() bool {
	return r.Barcode == ""
}

// ExpectedPrefix returns the barcode prefix of a library: its numeric code
// plus 1000. A non-numeric code is treated as 0.
func ExpectedPrefix(libraryCode string) string {
	n, err := strconv.Atoi(strings.TrimSpace(libraryCode))
	if err != nil {
		n = 0
	}
	return strconv.Itoa(n + prefixOffset)
}

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Normalize canonicalizes raw input in the context of the selected library.
//
// Input longer than 12 digits is cut to its first 12. Shorter input is
// treated as the suffix of a barcode of the selected library: it is left
// padded with zeros to fill the space after the prefix. Exactly 12 digits
// pass through unchanged.
func Normalize(raw, libraryCode string) Result {
	digits := Digits(raw)
	switch n := len(digits); {
	case n > Length:
		return Result{Barcode: digits[:Length]}
	case n > 0 && n < Length:
		prefix := ExpectedPrefix(libraryCode)
		return Result{
			Barcode:       prefix + leftPad(digits, Length-len(prefix)),
			AutoCompleted: true,
		}
	default:
		return Result{Barcode: digits}
	}
}

// IsComplete reports whether b has exactly the full barcode length.
func IsComplete(b string) bool {
	return len(b) == Length
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
