package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(name string, updated time.Time) store.Snapshot {
	rec := &catalog.Record{Barcode: "101200000001", OwnerLibraryCode: "12", LocationCode: "AB", LoanEligibilityCode: "0", CollectionStatusCode: "0", Title: "One"}
	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return store.Snapshot{
		ID:           "5b1c7f1e-0000-4000-8000-000000000001",
		Name:         name,
		LibraryCode:  "12",
		LocationCode: "AB",
		CatalogSHA:   "abc123",
		CreatedAt:    created,
		UpdatedAt:    updated,
		Events: []session.Event{
			{
				ID: "scan-2", Raw: "1", Barcode: "101200000001", Record: rec,
				Warnings:  []classify.Warning{{Kind: classify.Duplicate, Message: "Already scanned in this session"}},
				Timestamp: created.Add(2 * time.Minute),
			},
			{ID: "scan-1", Raw: "101200000001", Barcode: "101200000001", Record: rec, Timestamp: created.Add(time.Minute)},
			{
				ID: "scan-0", Raw: "101300000006", Barcode: "101300000006",
				Warnings:  []classify.Warning{{Kind: classify.WrongLibrary, Message: "Belongs to another library: North", LibraryCode: "13"}},
				Timestamp: created,
			},
		},
	}
}

func backends(t *testing.T) map[string]store.Port {
	t.Helper()
	dir := t.TempDir()
	file, err := store.Open(store.BackendFile, dir, "")
	require.NoError(t, err)
	sqlite, err := store.Open(store.BackendSQLite, dir, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = file.Close()
		_ = sqlite.Close()
	})
	return map[string]store.Port{"file": file, "sqlite": sqlite}
}

// --- Port ---

func TestPort_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := snapshot("spring-count", time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC))
			require.NoError(t, p.Save(ctx, want))

			got, err := p.Load(ctx, "spring-count")
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, classify.WrongLibrary, got.Events[2].Warnings[0].Kind)
		})
	}
}

func TestPort_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			snap := snapshot("count", time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC))
			require.NoError(t, p.Save(ctx, snap))
			snap.Events = snap.Events[:1]
			require.NoError(t, p.Save(ctx, snap))

			got, err := p.Load(ctx, "count")
			require.NoError(t, err)
			assert.Len(t, got.Events, 1)
		})
	}
}

func TestPort_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := p.Load(ctx, "nope")
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.ErrorIs(t, p.Delete(ctx, "nope"), store.ErrNotFound)
		})
	}
}

func TestPort_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			older := snapshot("older", time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))
			newer := snapshot("newer", time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
			require.NoError(t, p.Save(ctx, older))
			require.NoError(t, p.Save(ctx, newer))

			entries, err := p.List(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "newer", entries[0].Name)
			assert.Equal(t, 3, entries[0].Events)
			assert.Equal(t, "12", entries[1].LibraryCode)
			assert.True(t, entries[1].UpdatedAt.Equal(older.UpdatedAt))

			require.NoError(t, p.Delete(ctx, "older"))
			entries, err = p.List(ctx)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestPort_RejectsBadNames(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, p.Save(ctx, snapshot("../escape", time.Now())))
			assert.Error(t, p.Save(ctx, snapshot("", time.Now())))
		})
	}
}

func TestRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	p, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, snapshot("count", time.Now().UTC())))

	snap, err := p.Load(ctx, "count")
	require.NoError(t, err)
	s := session.Restore(snap, session.Options{})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.SeenBarcodes())
	assert.True(t, s.Seen("101300000006"))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := store.Open("postgres", t.TempDir(), "")
	assert.Error(t, err)
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"count", "2026-spring", "a.b_c"} {
		assert.NoError(t, store.ValidateName(ok), ok)
	}
	for _, bad := range []string{"", ".hidden", "a/b", "a b"} {
		assert.Error(t, store.ValidateName(bad), bad)
	}
}

// --- Current ---

func TestCurrent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	name, err := store.Current(dir)
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, store.SetCurrent(dir, "count"))
	name, err = store.Current(dir)
	require.NoError(t, err)
	assert.Equal(t, "count", name)
}

// --- Journal ---

func TestJournal_ObservesLedger(t *testing.T) {
	dir := t.TempDir()
	j, err := store.OpenJournal(dir, "count", nil)
	require.NoError(t, err)

	idx := catalog.Build([]catalog.Record{{Barcode: "101200000001", OwnerLibraryCode: "12", LoanEligibilityCode: "0", CollectionStatusCode: "0"}})
	s := session.New("count", "12", "", session.Options{Index: idx, Observers: []session.Observer{j}})

	first, err := s.AddScan("101200000001")
	require.NoError(t, err)
	_, err = s.AddScan("101200000001")
	require.NoError(t, err)
	require.NoError(t, s.DeleteScan(first.ID))
	res, err := s.BulkIngest(context.Background(), []string{"2", "3"}, session.BulkOptions{Suppress: true})
	require.NoError(t, err)
	j.Bulk(store.OpIngest, "list.txt", res)
	s.ClearAll()

	entries, err := j.Entries()
	require.NoError(t, err)
	var ops []store.Op
	for _, e := range entries {
		ops = append(ops, e.Op)
		assert.Equal(t, "count", e.Session)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Equal(t, []store.Op{
		store.OpScan, store.OpScan, store.OpDelete,
		store.OpScan, store.OpScan, store.OpIngest, store.OpClear,
	}, ops)

	assert.Empty(t, entries[0].Warnings)
	assert.Equal(t, []string{"duplicate"}, entries[1].Warnings)
	assert.Equal(t, first.ID, entries[2].EventID)
	assert.Equal(t, 2, entries[5].Count)
	assert.Equal(t, "list.txt", entries[5].Source)
	assert.Equal(t, 3, entries[6].Count)
	assert.Equal(t, store.JournalPath(dir, "count"), j.Path())
}

func TestJournal_MissingFile(t *testing.T) {
	j, err := store.OpenJournal(t.TempDir(), "fresh", nil)
	require.NoError(t, err)
	entries, err := j.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
