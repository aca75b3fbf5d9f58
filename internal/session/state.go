package session

import (
	"time"

	"github.com/google/uuid"
)

// State is the persisted shape of a session. Events are newest first.
type State struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	LibraryCode  string    `json:"library_code" yaml:"library_code"`
	LocationCode string    `json:"location_code,omitempty" yaml:"location_code,omitempty"`
	CatalogSHA   string    `json:"catalog_sha256,omitempty" yaml:"catalog_sha256,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	Events       []Event   `json:"events" yaml:"events"`
}

// Snapshot copies the session into its persisted shape.
func (s *Session) Snapshot() State {
	events := s.Events()
	return State{
		ID:           s.id,
		Name:         s.name,
		LibraryCode:  s.library,
		LocationCode: s.location,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.opts.Now().UTC(),
		Events:       events,
	}
}

// Restore rebuilds a session from its persisted shape. The seen set is
// derived from the surviving events.
func Restore(st State, opts Options) *Session {
	opts.fill()
	s := &Session{
		id:        st.ID,
		name:      st.Name,
		library:   st.LibraryCode,
		location:  st.LocationCode,
		createdAt: st.CreatedAt,
		events:    make([]Event, len(st.Events)),
		seen:      make(map[string]int),
		opts:      opts,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	for i, ev := range st.Events {
		s.events[len(st.Events)-1-i] = ev
		s.seen[ev.Barcode]++
	}
	return s
}
