package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Columns maps each logical field to additional header spellings accepted
// on import. The canonical field name always matches.
type Columns map[Field][]string

// FoldHeader reduces a header cell to its comparable form: diacritics
// removed, upper-cased, runs of spaces, hyphens and dots collapsed to "_".
func FoldHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, h)
	if err != nil {
		folded = h
	}
	folded = cases.Upper(language.Und).String(folded)

	var b strings.Builder
	sep := false
	for _, r := range folded {
		if r == ' ' || r == '-' || r == '.' || r == '_' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// resolve maps logical fields to their column index in header.
// The first matching column wins.
func (c Columns) resolve(header []string) map[Field]int {
	lookup := make(map[string]Field)
	for _, f := range Fields {
		lookup[FoldHeader(string(f))] = f
		for _, alias := range c[f] {
			if k := FoldHeader(alias); k != "" {
				if _, taken := lookup[k]; !taken {
					lookup[k] = f
				}
			}
		}
	}

	idx := make(map[Field]int)
	for i, h := range header {
		f, ok := lookup[FoldHeader(h)]
		if !ok {
			continue
		}
		if _, seen := idx[f]; !seen {
			idx[f] = i
		}
	}
	return idx
}
