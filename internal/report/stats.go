// Package report derives coverage statistics and export lists from a
// session snapshot and the catalog. Everything here is a pure read.
package report

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/blackwell-systems/shelfcount/internal/session"
)

// Input is the data every report is computed from.
type Input struct {
	State session.State
	Index *catalog.Index
	Refs  *reference.Set
}

func (in Input) libraries() reference.Table {
	if in.Refs == nil {
		return nil
	}
	return in.Refs.Libraries
}

func (in Input) locations() reference.Table {
	if in.Refs == nil {
		return nil
	}
	return in.Refs.Locations
}

// InScope reports whether rec counts toward coverage for library: it must
// be in the active collection and owned by that library.
func InScope(rec catalog.Record, library string) bool {
	return rec.Active() && rec.OwnerLibraryCode == library
}

// scopedRecords returns the in-scope catalog records in index order.
func (in Input) scopedRecords() []catalog.Record {
	var out []catalog.Record
	for _, r := range in.Index.ForLibrary(in.State.LibraryCode) {
		if InScope(r, in.State.LibraryCode) {
			out = append(out, r)
		}
	}
	return out
}

type scanState struct {
	scanned bool
	clean   bool
	count   int
}

// scanStates folds the surviving events per barcode.
func (in Input) scanStates() map[string]scanState {
	states := make(map[string]scanState)
	for _, ev := range in.State.Events {
		st := states[ev.Barcode]
		st.scanned = true
		st.count++
		if ev.Clean() {
			st.clean = true
		}
		states[ev.Barcode] = st
	}
	return states
}

// Coverage partitions the in-scope catalog: each record is valid (at least
// one clean scan), warned (scanned, never clean) or missing (never scanned).
type Coverage struct {
	Valid   int `json:"valid"`
	Warned  int `json:"warned"`
	Missing int `json:"missing"`
	Total   int `json:"total"`
}

// Percent returns the scanned share of the in-scope catalog.
func (c Coverage) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Valid+c.Warned) * 100 / float64(c.Total)
}

func (c *Coverage) add(st scanState) {
	c.Total++
	switch {
	case !st.scanned:
		c.Missing++
	case st.clean:
		c.Valid++
	default:
		c.Warned++
	}
}

// CoverageOf computes the coverage counts for the session's library.
func CoverageOf(in Input) Coverage {
	states := in.scanStates()
	var c Coverage
	for _, r := range in.scopedRecords() {
		c.add(states[r.Barcode])
	}
	return c
}

// KindCount is the number of events carrying a warning kind.
type KindCount struct {
	Kind  classify.Kind `json:"kind"`
	Label string        `json:"label"`
	Count int           `json:"count"`
}

// KindCounts tallies warning kinds over all events, in report order.
func KindCounts(in Input) []KindCount {
	counts := make(map[classify.Kind]int)
	for _, ev := range in.State.Events {
		for _, w := range ev.Warnings {
			counts[w.Kind]++
		}
	}
	out := make([]KindCount, 0, len(classify.Kinds))
	for _, k := range classify.Kinds {
		out = append(out, KindCount{Kind: k, Label: k.Label(), Count: counts[k]})
	}
	return out
}

// MaterialRow summarizes one material type of the active collection.
type MaterialRow struct {
	Type    string `json:"type"`
	Total   int    `json:"total"`
	Scanned int    `json:"scanned"`
}

// NoMaterial labels records without a material type.
const NoMaterial = "(none)"

// MaterialTypes groups the in-scope records by material type, largest first.
func MaterialTypes(in Input) []MaterialRow {
	states := in.scanStates()
	rows := make(map[string]*MaterialRow)
	for _, r := range in.scopedRecords() {
		t := r.MaterialType
		if t == "" {
			t = NoMaterial
		}
		row, ok := rows[t]
		if !ok {
			row = &MaterialRow{Type: t}
			rows[t] = row
		}
		row.Total++
		if states[r.Barcode].scanned {
			row.Scanned++
		}
	}
	out := make([]MaterialRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// LocationRow is the coverage of one shelf location.
type LocationRow struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Coverage
}

// Locations breaks coverage down by location code, sorted by code.
func Locations(in Input) []LocationRow {
	states := in.scanStates()
	rows := make(map[string]*LocationRow)
	for _, r := range in.scopedRecords() {
		row, ok := rows[r.LocationCode]
		if !ok {
			row = &LocationRow{Code: r.LocationCode, Name: in.locations().Display(r.LocationCode)}
			rows[r.LocationCode] = row
		}
		row.add(states[r.Barcode])
	}
	out := make([]LocationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Throughput is the scan rate between the earliest and latest event.
type Throughput struct {
	Scanned   int
	Elapsed   time.Duration
	PerMinute float64
}

// Infinite reports that events exist but no time elapsed between them.
func (t Throughput) Infinite() bool {
	return math.IsInf(t.PerMinute, 1)
}

func (t Throughput) String() string {
	if t.Infinite() {
		return "∞"
	}
	return strconv.FormatFloat(t.PerMinute, 'f', 1, 64)
}

// MarshalJSON renders the rate as a string so ∞ stays valid JSON.
func (t Throughput) MarshalJSON() ([]byte, error) {
	return []byte(`{"scanned":` + strconv.Itoa(t.Scanned) +
		`,"elapsed_seconds":` + strconv.FormatFloat(t.Elapsed.Seconds(), 'f', 0, 64) +
		`,"per_minute":"` + t.String() + `"}`), nil
}

// ThroughputOf computes scans per minute. It is independent of event order.
func ThroughputOf(in Input) Throughput {
	events := in.State.Events
	if len(events) == 0 {
		return Throughput{}
	}
	first, last := events[0].Timestamp, events[0].Timestamp
	for _, ev := range events[1:] {
		if ev.Timestamp.Before(first) {
			first = ev.Timestamp
		}
		if ev.Timestamp.After(last) {
			last = ev.Timestamp
		}
	}
	t := Throughput{Scanned: len(events), Elapsed: last.Sub(first)}
	if t.Elapsed <= 0 {
		t.PerMinute = math.Inf(1)
		return t
	}
	t.PerMinute = float64(len(events)) / t.Elapsed.Minutes()
	return t
}

// Summary bundles every statistic shown by the status command.
type Summary struct {
	Session    string        `json:"session"`
	Library    string        `json:"library"`
	Location   string        `json:"location,omitempty"`
	Events     int           `json:"events"`
	Coverage   Coverage      `json:"coverage"`
	Kinds      []KindCount   `json:"warnings"`
	Materials  []MaterialRow `json:"materials"`
	Locations  []LocationRow `json:"locations"`
	Throughput Throughput    `json:"throughput"`
}

// Summarize computes the full statistics set.
func Summarize(in Input) Summary {
	return Summary{
		Session:    in.State.Name,
		Library:    in.libraries().Display(in.State.LibraryCode),
		Location:   in.State.LocationCode,
		Events:     len(in.State.Events),
		Coverage:   CoverageOf(in),
		Kinds:      KindCounts(in),
		Materials:  MaterialTypes(in),
		Locations:  Locations(in),
		Throughput: ThroughputOf(in),
	}
}
