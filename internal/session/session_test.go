package session_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/notify"
	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *catalog.Index {
	return catalog.Build([]catalog.Record{
		{Barcode: "101200000123", OwnerLibraryCode: "12", LocationCode: "AB", LoanEligibilityCode: "0", CollectionStatusCode: "0", Title: "Clean"},
		{Barcode: "101200000124", OwnerLibraryCode: "12", LocationCode: "AB", LoanEligibilityCode: "0", CollectionStatusCode: "0", DueDate: "2026-11-01", Title: "Lent"},
		{Barcode: "101200000125", OwnerLibraryCode: "12", LocationCode: "CD", LoanEligibilityCode: "0", CollectionStatusCode: "1", Title: "Withdrawn"},
	})
}

type fixture struct {
	sess   *session.Session
	tones  *notify.Recorder
	clock  time.Time
	nextID int
	// failID makes the n-th generated ID fail when non-zero.
	failID int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{tones: &notify.Recorder{}, clock: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	f.sess = session.New("spring count", "12", "", session.Options{
		Index:     testIndex(),
		Libraries: reference.Table{"12": "Central", "13": "North"},
		Notifier:  f.tones,
		Now: func() time.Time {
			f.clock = f.clock.Add(time.Second)
			return f.clock
		},
		NewID: func() (string, error) {
			f.nextID++
			if f.nextID == f.failID {
				return "", errors.New("id source exhausted")
			}
			return fmt.Sprintf("scan-%03d", f.nextID), nil
		},
	})
	return f
}

func kindsOf(ev *session.Event) []classify.Kind {
	out := make([]classify.Kind, len(ev.Warnings))
	for i, w := range ev.Warnings {
		out[i] = w.Kind
	}
	return out
}

// --- AddScan ---

func TestAddScan_Clean(t *testing.T) {
	f := newFixture(t)
	ev, err := f.sess.AddScan("101200000123")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Clean())
	assert.Equal(t, "101200000123", ev.Barcode)
	assert.Equal(t, "Clean", ev.Record.Title)
	assert.True(t, f.sess.Seen("101200000123"))
	assert.Equal(t, []classify.Tone{classify.ToneSuccess}, f.tones.Tones())
}

func TestAddScan_NoDigitsRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ev, err := f.sess.AddScan("  --  ")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Equal(t, 0, f.sess.Len())
	assert.Empty(t, f.tones.Tones(), "no tone for degenerate input")
}

func TestAddScan_DuplicateKeepsBothEvents(t *testing.T) {
	f := newFixture(t)
	first, err := f.sess.AddScan("101200000123")
	require.NoError(t, err)
	second, err := f.sess.AddScan("1012 0000 0123")
	require.NoError(t, err)

	assert.Equal(t, []classify.Kind{classify.Duplicate}, kindsOf(second))
	require.NotNil(t, second.Record, "duplicate reuses the matched record")
	assert.Equal(t, first.Record.Barcode, second.Record.Barcode)

	events := f.sess.Events()
	require.Len(t, events, 2)
	assert.Equal(t, second.ID, events[0].ID, "newest first")
	assert.Equal(t, first.ID, events[1].ID)
	assert.Equal(t, 1, f.sess.SeenBarcodes())
	assert.Equal(t, []classify.Tone{classify.ToneSuccess, classify.Duplicate.Tone()}, f.tones.Tones())
}

func TestAddScan_MultiWarningTone(t *testing.T) {
	f := newFixture(t)
	rec := catalog.Record{Barcode: "101200000999", OwnerLibraryCode: "12", LoanEligibilityCode: "9", CollectionStatusCode: "3"}
	f.sess.SetIndex(catalog.Build([]catalog.Record{rec}))
	ev, err := f.sess.AddScan(rec.Barcode)
	require.NoError(t, err)
	assert.Equal(t, []classify.Kind{classify.NotLoanable, classify.NotInCollection}, kindsOf(ev))
	assert.Equal(t, []classify.Tone{classify.ToneMulti}, f.tones.Tones())
}

func TestAddScan_IDFailure(t *testing.T) {
	s := session.New("x", "12", "", session.Options{
		NewID: func() (string, error) { return "", errors.New("no entropy") },
	})
	_, err := s.AddScan("101200000123")
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Seen("101200000123"))
}

// --- DeleteScan ---

func TestDeleteScan_RestoresEligibility(t *testing.T) {
	f := newFixture(t)
	ev, err := f.sess.AddScan("101200000123")
	require.NoError(t, err)

	require.NoError(t, f.sess.DeleteScan(ev.ID))
	assert.False(t, f.sess.Seen("101200000123"))

	again, err := f.sess.AddScan("101200000123")
	require.NoError(t, err)
	assert.True(t, again.Clean(), "rescan after deletion is classified fresh")
}

func TestDeleteScan_KeepsSeenWhileOthersSurvive(t *testing.T) {
	f := newFixture(t)
	first, _ := f.sess.AddScan("101200000123")
	dup, _ := f.sess.AddScan("101200000123")

	require.NoError(t, f.sess.DeleteScan(first.ID))
	assert.True(t, f.sess.Seen("101200000123"), "duplicate event still survives")

	require.NoError(t, f.sess.DeleteScan(dup.ID))
	assert.False(t, f.sess.Seen("101200000123"))
	assert.Equal(t, 0, f.sess.SeenBarcodes())
}

func TestDeleteScan_Unknown(t *testing.T) {
	f := newFixture(t)
	err := f.sess.DeleteScan("scan-nope")
	assert.ErrorIs(t, err, session.ErrEventNotFound)
}

// --- ClearAll ---

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	f.sess.AddScan("101200000123")
	f.sess.AddScan("101200000124")
	f.sess.ClearAll()
	assert.Equal(t, 0, f.sess.Len())
	assert.Equal(t, 0, f.sess.SeenBarcodes())

	ev, err := f.sess.AddScan("101200000123")
	require.NoError(t, err)
	assert.True(t, ev.Clean())
}

// --- Snapshot / Restore ---

func TestSnapshotRestore_RebuildsSeenSet(t *testing.T) {
	f := newFixture(t)
	f.sess.AddScan("101200000123")
	f.sess.AddScan("101200000123")
	f.sess.AddScan("55")

	st := f.sess.Snapshot()
	require.Len(t, st.Events, 3)
	assert.Equal(t, "12", st.LibraryCode)
	assert.Equal(t, f.sess.ID(), st.ID)

	restored := session.Restore(st, session.Options{Index: testIndex()})
	assert.Equal(t, 3, restored.Len())
	assert.Equal(t, 2, restored.SeenBarcodes())
	assert.Equal(t, st.Events, restored.Events())

	ev, err := restored.AddScan("101200000123")
	require.NoError(t, err)
	assert.Equal(t, []classify.Kind{classify.Duplicate}, kindsOf(ev))
}

// --- Observers ---

type countingObserver struct {
	recorded, deleted, cleared int
}

func (c *countingObserver) Recorded(session.Event) { c.recorded++ }
func (c *countingObserver) Deleted(session.Event)  { c.deleted++ }
func (c *countingObserver) Cleared(int)            { c.cleared++ }

func TestObservers(t *testing.T) {
	obs := &countingObserver{}
	s := session.New("x", "12", "", session.Options{Index: testIndex(), Observers: []session.Observer{obs}})
	ev, _ := s.AddScan("101200000123")
	_, _ = s.BulkIngest(context.Background(), []string{"1", "2"}, session.BulkOptions{Suppress: true})
	require.NoError(t, s.DeleteScan(ev.ID))
	s.ClearAll()
	assert.Equal(t, 3, obs.recorded)
	assert.Equal(t, 1, obs.deleted)
	assert.Equal(t, 1, obs.cleared)
}
