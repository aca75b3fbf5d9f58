package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ErrMissingBarcodeColumn is returned when an extract has no BARCODE column.
var ErrMissingBarcodeColumn = errors.New("required column BARCODE not found")

// Import reads a catalog extract from disk. The format is chosen by
// extension: .parquet is columnar, everything else is delimited text.
func Import(path string, cols Columns) ([]Record, error) {
	var (
		records []Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		records, err = importParquet(path, cols)
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		defer f.Close()
		records, err = Parse(f, cols)
	}
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// Parse decodes a delimited text extract with a header row. The delimiter
// (comma, semicolon or tab) is sniffed from the header line.
func Parse(r io.Reader, cols Columns) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrMissingBarcodeColumn
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return fromTable(rows[0], rows[1:], cols)
}

// ReadRawList reads a bulk barcode list: one entry per line for plain text,
// or the first column of each row for delimited files.
func ReadRawList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening list: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("reading list: %w", err)
		}
		cr := csv.NewReader(bytes.NewReader(data))
		cr.Comma = sniffDelimiter(data)
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parsing list: %w", err)
		}
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			if len(row) > 0 {
				out = append(out, row[0])
			}
		}
		return out, nil
	default:
		return ReadLines(f)
	}
}

// ReadLines returns every non-blank line of r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

func importParquet(path string, cols Columns) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}

	fields := pf.Schema().Fields()
	header := make([]string, len(fields))
	for i, fld := range fields {
		header[i] = fld.Name()
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	var table [][]string
	buf := make([]parquet.Row, 128)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]string, len(header))
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(cells) || v.IsNull() {
					continue
				}
				cells[c] = v.String()
			}
			table = append(table, cells)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
	}
	return fromTable(header, table, cols)
}

func fromTable(header []string, rows [][]string, cols Columns) ([]Record, error) {
	idx := cols.resolve(header)
	if _, ok := idx[FieldBarcode]; !ok {
		return nil, ErrMissingBarcodeColumn
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		var r Record
		for f, i := range idx {
			if i < len(row) {
				r.set(f, strings.TrimSpace(row[i]))
			}
		}
		if r.Barcode == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
