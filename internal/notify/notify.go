// Package notify delivers the per-scan signal requested by the ledger.
// Playback is up to the adapter; the ledger only chooses the tone.
package notify

import (
	"io"
	"strings"
	"sync"

	"github.com/blackwell-systems/shelfcount/internal/classify"
)

// Port receives exactly one tone per interactive scan.
type Port interface {
	Signal(tone classify.Tone)
}

// Nop discards every signal.
type Nop struct{}

func (Nop) Signal(classify.Tone) {}

// Recorder keeps every requested tone in order.
type Recorder struct {
	mu    sync.Mutex
	tones []classify.Tone
}

func (r *Recorder) Signal(tone classify.Tone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, tone)
}

// Tones returns a copy of the recorded tones.
func (r *Recorder) Tones() []classify.Tone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]classify.Tone(nil), r.tones...)
}

// Bell rings the terminal bell: once for a single warning, twice for
// several, and not at all for a clean scan unless Chime is set.
type Bell struct {
	W     io.Writer
	Chime bool
}

func (b Bell) Signal(tone classify.Tone) {
	if b.W == nil {
		return
	}
	n := 1
	switch tone {
	case classify.ToneSuccess:
		if !b.Chime {
			return
		}
	case classify.ToneMulti:
		n = 2
	}
	_, _ = io.WriteString(b.W, strings.Repeat("\a", n))
}
