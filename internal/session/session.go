// Package session implements the inventory ledger: an ordered log of scan
// events with the seen-barcode set used for duplicate detection.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/barcode"
	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/id"
	"github.com/blackwell-systems/shelfcount/internal/notify"
	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEventNotFound is returned when deleting an unknown event ID.
var ErrEventNotFound = errors.New("scan event not found")

// Options configures the collaborators of a Session.
type Options struct {
	Index     *catalog.Index
	Libraries reference.Table
	Locations reference.Table
	Policy    classify.Policy
	Notifier  notify.Port
	Observers []Observer
	Logger    *zap.Logger
	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() (string, error)
}

func (o *Options) fill() {
	if o.Notifier == nil {
		o.Notifier = notify.Nop{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() (string, error) { return id.Generate(id.ScanPrefix) }
	}
}

// Session is one inventory run. All mutations are serialized; the event
// list and the seen set are always observed together.
//
// The seen set holds a reference count per barcode: a barcode is seen
// while at least one of its events survives.
type Session struct {
	mu        sync.Mutex
	id        string
	name      string
	library   string
	location  string
	createdAt time.Time
	events    []Event // oldest first
	seen      map[string]int
	opts      Options
}

// New starts an empty session for library, optionally filtered by location.
func New(name, library, location string, opts Options) *Session {
	opts.fill()
	return &Session{
		id:        uuid.NewString(),
		name:      name,
		library:   library,
		location:  location,
		createdAt: opts.Now().UTC(),
		seen:      make(map[string]int),
		opts:      opts,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Name() string         { return s.name }
func (s *Session) LibraryCode() string  { return s.library }
func (s *Session) LocationCode() string { return s.location }

// SetIndex swaps in a freshly imported catalog. Recorded events keep the
// record they were classified against.
func (s *Session) SetIndex(idx *catalog.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Index = idx
}

// AddScan normalizes and classifies raw, records the event and requests
// its tone. Input without digits records nothing and returns nil.
func (s *Session) AddScan(raw string) (*Event, error) {
	s.mu.Lock()
	ev, err := s.addLocked(raw)
	s.mu.Unlock()
	if err != nil || ev == nil {
		return nil, err
	}
	s.opts.Notifier.Signal(ev.Tone())
	s.observeRecorded(*ev)
	return ev, nil
}

func (s *Session) addLocked(raw string) (*Event, error) {
	n := barcode.Normalize(raw, s.library)
	if n.Empty() {
		return nil, nil
	}

	res := classify.Classify(classify.Context{
		Barcode:       n.Barcode,
		Raw:           raw,
		AutoCompleted: n.AutoCompleted,
		LibraryCode:   s.library,
		LocationCode:  s.location,
		Index:         s.opts.Index,
		Libraries:     s.opts.Libraries,
		Locations:     s.opts.Locations,
		Policy:        s.opts.Policy,
		Seen:          s.seenLocked,
	})
	return s.recordLocked(raw, n.Barcode, res.Record, res.Warnings)
}

func (s *Session) recordLocked(raw, bc string, rec *catalog.Record, ws []classify.Warning) (*Event, error) {
	eventID, err := s.opts.NewID()
	if err != nil {
		return nil, fmt.Errorf("recording scan: %w", err)
	}
	ev := Event{
		ID:        eventID,
		Raw:       raw,
		Barcode:   bc,
		Record:    rec,
		Warnings:  ws,
		Timestamp: s.opts.Now().UTC(),
	}
	s.events = append(s.events, ev)
	s.seen[bc]++

	s.opts.Logger.Debug("scan recorded",
		zap.String("id", ev.ID),
		zap.String("barcode", bc),
		zap.Int("warnings", len(ws)))
	return &ev, nil
}

// seenLocked returns the most recent matched record for bc if the barcode
// has a surviving event.
func (s *Session) seenLocked(bc string) (*catalog.Record, bool) {
	if s.seen[bc] == 0 {
		return nil, false
	}
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Barcode == bc && s.events[i].Record != nil {
			return s.events[i].Record, true
		}
	}
	return nil, true
}

// DeleteScan removes a single event. When it was the last surviving event
// for its barcode the barcode leaves the seen set.
func (s *Session) DeleteScan(eventID string) error {
	s.mu.Lock()
	ev, ok := s.deleteLocked(eventID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	s.observeDeleted(ev)
	return nil
}

func (s *Session) deleteLocked(eventID string) (Event, bool) {
	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		ev := s.events[i]
		s.events = append(s.events[:i], s.events[i+1:]...)
		s.unseeLocked(ev.Barcode)
		return ev, true
	}
	return Event{}, false
}

func (s *Session) unseeLocked(bc string) {
	if s.seen[bc] <= 1 {
		delete(s.seen, bc)
		return
	}
	s.seen[bc]--
}

// ClearAll empties the ledger and the seen set.
func (s *Session) ClearAll() {
	s.mu.Lock()
	n := len(s.events)
	s.events = nil
	s.seen = make(map[string]int)
	s.mu.Unlock()

	s.opts.Logger.Info("session cleared", zap.String("session", s.name), zap.Int("events", n))
	for _, o := range s.opts.Observers {
		o.Cleared(n)
	}
}

// Events returns the events newest first.
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	for i, ev := range s.events {
		out[len(s.events)-1-i] = ev
	}
	return out
}

// Event returns the event with the given ID.
func (s *Session) Event(eventID string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID == eventID {
			return ev, true
		}
	}
	return Event{}, false
}

// Len returns the number of surviving events.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Seen reports whether bc has at least one surviving event.
func (s *Session) Seen(bc string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[bc] > 0
}

// SeenBarcodes returns the number of distinct barcodes in the seen set.
func (s *Session) SeenBarcodes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *Session) observeRecorded(ev Event) {
	for _, o := range s.opts.Observers {
		o.Recorded(ev)
	}
}

func (s *Session) observeDeleted(ev Event) {
	for _, o := range s.opts.Observers {
		o.Deleted(ev)
	}
}
