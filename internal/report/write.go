package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Format selects a table encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// Write encodes t in the given format.
func Write(w io.Writer, t Table, f Format) error {
	switch f {
	case FormatCSV, "":
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatText:
		return WriteText(w, t)
	default:
		return fmt.Errorf("unknown format %q (supported: csv, json, txt)", f)
	}
}

// WriteCSV writes the header and rows as comma-separated values.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing %s: %w", t.Name, err)
	}
	return nil
}

// WriteJSON writes the rows as an array of objects keyed by header.
func WriteJSON(w io.Writer, t Table) error {
	objs := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		objs = append(objs, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objs)
}

// WriteText writes the first column of each row, one per line, without a
// header. This is the plain write-off list format.
func WriteText(w io.Writer, t Table) error {
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, row[0]); err != nil {
			return err
		}
	}
	return nil
}
