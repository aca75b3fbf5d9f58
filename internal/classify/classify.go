// Package classify turns a normalized barcode into an ordered list of
// warnings by checking it against the catalog and the session context.
package classify

import (
	"strconv"
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/barcode"
	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/reference"
)

// DefaultLoanableCodes is the loan eligibility set used when none is configured.
var DefaultLoanableCodes = []string{"0"}

// Policy holds the institution-defined classification rules.
type Policy struct {
	LoanableCodes []string
}

// Loanable reports whether code is in the loanable set.
func (p Policy) Loanable(code string) bool {
	codes := p.LoanableCodes
	if len(codes) == 0 {
		codes = DefaultLoanableCodes
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// SeenFunc reports whether barcode already has a surviving event in the
// session, returning the record that event matched (if any).
type SeenFunc func(barcode string) (*catalog.Record, bool)

// Context bundles everything one classification needs. It is read-only.
type Context struct {
	Barcode       string
	Raw           string
	AutoCompleted bool
	LibraryCode   string
	// LocationCode filters by shelf location when non-empty.
	LocationCode string
	Index        *catalog.Index
	Libraries    reference.Table
	Locations    reference.Table
	Policy       Policy
	Seen         SeenFunc
}

// Result is the outcome of a classification.
type Result struct {
	Warnings []Warning
	Record   *catalog.Record
}

// Clean reports whether the scan produced no warnings.
func (r Result) Clean() bool {
	return len(r.Warnings) == 0
}

// Classify runs the duplicate, structural and catalog checks in order.
// Duplicate and structural failures short-circuit; record checks accumulate.
func Classify(c Context) Result {
	if c.Seen != nil {
		if prev, seen := c.Seen(c.Barcode); seen {
			return Result{Warnings: []Warning{duplicateWarning()}, Record: prev}
		}
	}

	prefix := barcode.ExpectedPrefix(c.LibraryCode)
	if barcode.IsComplete(c.Barcode) && !strings.HasPrefix(c.Barcode, prefix) {
		if code, ok := ownerByPrefix(c.Barcode, c.Libraries); ok {
			return Result{Warnings: []Warning{wrongLibraryWarning(code, c.Libraries.Display(code))}}
		}
		return Result{Warnings: []Warning{invalidStructureWarning(c.Barcode)}}
	}

	rec, found := c.Index.Lookup(c.Barcode)
	if !found {
		if c.AutoCompleted {
			return Result{Warnings: []Warning{autoCompletedNotFoundWarning(c.Barcode)}}
		}
		return Result{Warnings: []Warning{notFoundWarning()}}
	}

	return Result{Warnings: RecordWarnings(rec, c), Record: &rec}
}

// RecordWarnings evaluates the per-record rules in their fixed order.
func RecordWarnings(rec catalog.Record, c Context) []Warning {
	var ws []Warning
	if rec.OwnerLibraryCode != c.LibraryCode {
		ws = append(ws, wrongLibraryWarning(rec.OwnerLibraryCode, c.Libraries.Display(rec.OwnerLibraryCode)))
	}
	if c.LocationCode != "" && rec.LocationCode != c.LocationCode {
		ws = append(ws, locationMismatchWarning(c.Locations.Display(rec.LocationCode), c.Locations.Display(c.LocationCode)))
	}
	if !c.Policy.Loanable(rec.LoanEligibilityCode) {
		ws = append(ws, notLoanableWarning(rec.LoanEligibilityText, rec.LoanEligibilityCode))
	}
	if !rec.Active() {
		ws = append(ws, notInCollectionWarning(rec.CollectionStatusCode))
	}
	if rec.OnLoan() {
		ws = append(ws, OnLoanWarning(rec.DueDate))
	}
	return ws
}

// ownerByPrefix finds the known library whose derived prefix starts the
// barcode. Longer prefixes win; non-numeric codes never match.
func ownerByPrefix(bc string, libs reference.Table) (string, bool) {
	best, bestLen := "", 0
	for _, code := range libs.Codes() {
		if _, err := strconv.Atoi(code); err != nil {
			continue
		}
		p := barcode.ExpectedPrefix(code)
		if strings.HasPrefix(bc, p) && len(p) > bestLen {
			best, bestLen = code, len(p)
		}
	}
	return best, bestLen > 0
}
