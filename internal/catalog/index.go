package catalog

import (
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/barcode"
)

// Index is an immutable barcode lookup built from imported records.
// Build a new Index to replace the catalog; never mutate one in place.
type Index struct {
	byBarcode map[string]Record
	order     []string
}

// Build indexes records by barcode. Catalog cells are keyed on their digits
// only, so "1012-0000-0123" matches the scan 101200000123. Later rows win on
// duplicate barcodes; iteration order follows the first appearance of each
// barcode. Rows without digits are dropped.
func Build(records []Record) *Index {
	idx := &Index{
		byBarcode: make(map[string]Record, len(records)),
		order:     make([]string, 0, len(records)),
	}
	for _, r := range records {
		key := barcode.Digits(r.Barcode)
		if key == "" {
			continue
		}
		r.Barcode = key
		if _, exists := idx.byBarcode[key]; !exists {
			idx.order = append(idx.order, key)
		}
		idx.byBarcode[key] = r
	}
	return idx
}

// Lookup returns the record for barcode.
func (idx *Index) Lookup(barcode string) (Record, bool) {
	if idx == nil {
		return Record{}, false
	}
	r, ok := idx.byBarcode[barcode]
	return r, ok
}

// Len returns the number of distinct barcodes.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}

// All returns every record in index order.
func (idx *Index) All() []Record {
	if idx == nil {
		return nil
	}
	out := make([]Record, 0, len(idx.order))
	for _, k := range idx.order {
		out = append(out, idx.byBarcode[k])
	}
	return out
}

// ForLibrary returns the records owned by the given library code.
func (idx *Index) ForLibrary(code string) []Record {
	if idx == nil {
		return nil
	}
	var out []Record
	for _, k := range idx.order {
		if r := idx.byBarcode[k]; r.OwnerLibraryCode == code {
			out = append(out, r)
		}
	}
	return out
}

// Filter applies all non-empty criteria and returns matching records.
type Filter struct {
	Library  string
	Location string
	Material string
	Search   string // matches title or barcode
}

// Apply returns the subset of records matching all non-empty filter fields.
func (f Filter) Apply(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if f.Library != "" && r.OwnerLibraryCode != f.Library {
			continue
		}
		if f.Location != "" && !strings.EqualFold(r.LocationCode, f.Location) {
			continue
		}
		if f.Material != "" && !strings.EqualFold(r.MaterialType, f.Material) {
			continue
		}
		if f.Search != "" && !matchesSearch(r, f.Search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r Record, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	return strings.Contains(r.Barcode, q)
}

// LibraryCodes returns the distinct owner library codes in index order.
func (idx *Index) LibraryCodes() []string {
	if idx == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, k := range idx.order {
		code := idx.byBarcode[k].OwnerLibraryCode
		if code != "" && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}
