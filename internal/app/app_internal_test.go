package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/store"
	"github.com/fatih/color"
)

func TestReadScans(t *testing.T) {
	var got []string
	err := readScans(strings.NewReader(" 4711 \n\n\t\n101200000002\r\n"), false, func(raw string) error {
		got = append(got, raw)
		return nil
	})
	if err != nil {
		t.Fatalf("readScans: %v", err)
	}
	if strings.Join(got, ",") != "4711,101200000002" {
		t.Errorf("lines = %q, want [4711 101200000002]", got)
	}
}

func TestReadScans_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := readScans(strings.NewReader("1\n2\n3\n"), false, func(string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDescribeEntry(t *testing.T) {
	color.NoColor = true
	tests := []struct {
		entry store.JournalEntry
		want  string
	}{
		{store.JournalEntry{Op: store.OpScan, Barcode: "101200000001"}, "101200000001"},
		{store.JournalEntry{Op: store.OpScan, Barcode: "101200000001", Warnings: []string{"duplicate", "on_loan"}}, "101200000001  duplicate, on_loan"},
		{store.JournalEntry{Op: store.OpDelete, EventID: "scan-1", Barcode: "101200000001"}, "scan-1 101200000001"},
		{store.JournalEntry{Op: store.OpClear, Count: 4}, "4 events"},
		{store.JournalEntry{Op: store.OpIngest, Source: "list.txt", Count: 2}, "list.txt: 2 recorded"},
	}
	for _, tt := range tests {
		if got := describeEntry(tt.entry); got != tt.want {
			t.Errorf("describeEntry(%s) = %q, want %q", tt.entry.Op, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("WARN", false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if l.Core().Enabled(-1) {
		t.Error("debug enabled at warn level")
	}

	l, err = newLogger("warn", true)
	if err != nil {
		t.Fatalf("newLogger verbose: %v", err)
	}
	if !l.Core().Enabled(-1) {
		t.Error("verbose did not enable debug")
	}

	if _, err := newLogger("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSave_AfterCancelledIngest(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "shelfcount.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()
	w := &workspace{session: session.New("count", "12", "", session.Options{}), store: st}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	opts := session.BulkOptions{Suppress: true, ChunkSize: 1, Progress: func(done, _ int) {
		if done == 2 {
			cancel()
		}
	}}
	res, err := w.session.BulkIngest(ctx, []string{"1", "2", "3", "4"}, opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("BulkIngest err = %v, want context.Canceled", err)
	}
	if res.Processed != 2 {
		t.Fatalf("Processed = %d, want 2", res.Processed)
	}

	w.save(ctx)

	snap, err := st.Load(context.Background(), "count")
	if err != nil {
		t.Fatalf("Load after cancelled ingest: %v", err)
	}
	if len(snap.Events) != 2 {
		t.Errorf("saved events = %d, want 2", len(snap.Events))
	}
}
