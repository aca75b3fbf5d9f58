package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/session"
)

// Table is a named tabular export.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Kind names an export list.
type Kind string

const (
	ExportClean           Kind = "clean"
	ExportWrongLibrary    Kind = "wrong-library"
	ExportLocation        Kind = "location-mismatch"
	ExportDuplicates      Kind = "duplicates"
	ExportNotInList       Kind = "not-in-list"
	ExportMissing         Kind = "missing"
	ExportWriteOff        Kind = "write-off"
	ExportNotLoanable     Kind = "not-loanable"
	ExportNotInCollection Kind = "not-in-collection"
	ExportOnLoan          Kind = "on-loan"
	ExportAll             Kind = "all"
)

// Kinds lists every export in menu order.
var Kinds = []Kind{
	ExportAll,
	ExportClean,
	ExportMissing,
	ExportWriteOff,
	ExportWrongLibrary,
	ExportLocation,
	ExportNotLoanable,
	ExportNotInCollection,
	ExportOnLoan,
	ExportNotInList,
	ExportDuplicates,
}

var eventHeader = []string{"ID", "BARCODE", "TITLE", "LOCATION_CODE", "MATERIAL_TYPE", "SCANNED_AT", "WARNINGS"}

// Export builds the named list.
func Export(k Kind, in Input) (Table, error) {
	switch k {
	case ExportAll:
		return eventTable(k, in.State.Events, func(session.Event) bool { return true }), nil
	case ExportClean:
		return eventTable(k, in.State.Events, session.Event.Clean), nil
	case ExportNotLoanable:
		return eventTable(k, in.State.Events, hasKind(classify.NotLoanable)), nil
	case ExportNotInCollection:
		return eventTable(k, in.State.Events, hasKind(classify.NotInCollection)), nil
	case ExportOnLoan:
		return eventTable(k, in.State.Events, hasKind(classify.OnLoan)), nil
	case ExportWrongLibrary:
		return wrongLibrary(in), nil
	case ExportLocation:
		return locationMismatch(in), nil
	case ExportNotInList:
		return notInList(in), nil
	case ExportDuplicates:
		return duplicates(in), nil
	case ExportMissing:
		return missing(in), nil
	case ExportWriteOff:
		return writeOff(in), nil
	default:
		return Table{}, fmt.Errorf("unknown export %q", k)
	}
}

func hasKind(k classify.Kind) func(session.Event) bool {
	return func(ev session.Event) bool { return classify.Has(ev.Warnings, k) }
}

func eventRow(ev session.Event) []string {
	var title, loc, material string
	if ev.Record != nil {
		title, loc, material = ev.Record.Title, ev.Record.LocationCode, ev.Record.MaterialType
	}
	return []string{
		ev.ID,
		ev.Barcode,
		title,
		loc,
		material,
		ev.Timestamp.Format(time.RFC3339),
		classify.Join(ev.Warnings),
	}
}

func eventTable(k Kind, events []session.Event, keep func(session.Event) bool) Table {
	t := Table{Name: string(k), Header: eventHeader}
	for _, ev := range events {
		if keep(ev) {
			t.Rows = append(t.Rows, eventRow(ev))
		}
	}
	return t
}

func wrongLibrary(in Input) Table {
	t := Table{Name: string(ExportWrongLibrary), Header: []string{"BARCODE", "TITLE", "OWNER_CODE", "OWNER_NAME", "SCANNED_AT"}}
	for _, ev := range in.State.Events {
		for _, w := range ev.Warnings {
			if w.Kind != classify.WrongLibrary {
				continue
			}
			owner := w.LibraryCode
			if owner == "" && ev.Record != nil {
				owner = ev.Record.OwnerLibraryCode
			}
			title := ""
			if ev.Record != nil {
				title = ev.Record.Title
			}
			t.Rows = append(t.Rows, []string{ev.Barcode, title, owner, in.libraries().Display(owner), ev.Timestamp.Format(time.RFC3339)})
			break
		}
	}
	return t
}

func locationMismatch(in Input) Table {
	t := Table{Name: string(ExportLocation), Header: []string{"BARCODE", "TITLE", "LOCATION_CODE", "LOCATION_NAME", "EXPECTED_CODE", "SCANNED_AT"}}
	for _, ev := range in.State.Events {
		if !classify.Has(ev.Warnings, classify.LocationMismatch) || ev.Record == nil {
			continue
		}
		r := ev.Record
		t.Rows = append(t.Rows, []string{
			ev.Barcode, r.Title, r.LocationCode, in.locations().Display(r.LocationCode),
			in.State.LocationCode, ev.Timestamp.Format(time.RFC3339),
		})
	}
	return t
}

func notInList(in Input) Table {
	t := Table{Name: string(ExportNotInList), Header: []string{"RAW", "BARCODE", "AUTO_COMPLETED", "SCANNED_AT"}}
	for _, ev := range in.State.Events {
		auto := classify.Has(ev.Warnings, classify.AutoCompletedNotFound)
		if !auto && !classify.Has(ev.Warnings, classify.NotFound) {
			continue
		}
		t.Rows = append(t.Rows, []string{ev.Raw, ev.Barcode, strconv.FormatBool(auto), ev.Timestamp.Format(time.RFC3339)})
	}
	return t
}

// DuplicateCounts maps each barcode scanned more than once to its number
// of surviving events.
func DuplicateCounts(in Input) map[string]int {
	out := make(map[string]int)
	for bc, st := range in.scanStates() {
		if st.count > 1 {
			out[bc] = st.count
		}
	}
	return out
}

func duplicates(in Input) Table {
	counts := DuplicateCounts(in)
	codes := make([]string, 0, len(counts))
	for bc := range counts {
		codes = append(codes, bc)
	}
	sort.Strings(codes)

	t := Table{Name: string(ExportDuplicates), Header: []string{"BARCODE", "TITLE", "COUNT"}}
	for _, bc := range codes {
		rec, _ := in.Index.Lookup(bc)
		t.Rows = append(t.Rows, []string{bc, rec.Title, strconv.Itoa(counts[bc])})
	}
	return t
}

// MissingRecords returns the in-scope records without any surviving event.
func MissingRecords(in Input) []catalog.Record {
	states := in.scanStates()
	var out []catalog.Record
	for _, r := range in.scopedRecords() {
		if !states[r.Barcode].scanned {
			out = append(out, r)
		}
	}
	return out
}

func missing(in Input) Table {
	header := make([]string, len(catalog.Fields))
	for i, f := range catalog.Fields {
		header[i] = string(f)
	}
	t := Table{Name: string(ExportMissing), Header: header}
	for _, r := range MissingRecords(in) {
		t.Rows = append(t.Rows, []string{
			r.Barcode, r.OwnerLibraryCode, r.LocationCode, r.LoanEligibilityCode, r.LoanEligibilityText,
			r.CollectionStatusCode, r.NoticeCode, r.DueDate, r.Title, r.MaterialType,
		})
	}
	return t
}

func writeOff(in Input) Table {
	t := Table{Name: string(ExportWriteOff), Header: []string{"BARCODE"}}
	for _, r := range MissingRecords(in) {
		t.Rows = append(t.Rows, []string{r.Barcode})
	}
	return t
}
