package session

import (
	"time"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
)

// Event is one classified scan. Events are never modified once recorded;
// they are only deleted from the ledger.
type Event struct {
	ID        string             `json:"id" yaml:"id"`
	Raw       string             `json:"raw" yaml:"raw"`
	Barcode   string             `json:"barcode" yaml:"barcode"`
	Record    *catalog.Record    `json:"record,omitempty" yaml:"record,omitempty"`
	Warnings  []classify.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Timestamp time.Time          `json:"timestamp" yaml:"timestamp"`
}

// Clean reports whether the scan carries no warnings.
func (e Event) Clean() bool {
	return len(e.Warnings) == 0
}

// Tone is the notification signal for this event.
func (e Event) Tone() classify.Tone {
	return classify.ToneFor(e.Warnings)
}

// Observer is told about ledger mutations after they are committed.
type Observer interface {
	Recorded(e Event)
	Deleted(e Event)
	Cleared(n int)
}
