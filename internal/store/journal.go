package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/session"
	"go.uber.org/zap"
)

// Op names a journaled ledger operation.
type Op string

const (
	OpScan   Op = "scan"
	OpDelete Op = "delete"
	OpClear  Op = "clear"
	OpIngest Op = "ingest"
	OpLoans  Op = "loans"
)

// JournalEntry records one ledger operation.
type JournalEntry struct {
	Op        Op        `json:"op"`
	Session   string    `json:"session"`
	EventID   string    `json:"event_id,omitempty"`
	Barcode   string    `json:"barcode,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	Count     int       `json:"count,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal is a JSONL append-only log of one session's operations.
type Journal struct {
	mu      sync.Mutex
	path    string
	session string
	now     func() time.Time
	logger  *zap.Logger
}

// JournalPath returns the journal file of a session under dir.
func JournalPath(dir, name string) string {
	return filepath.Join(dir, "journal", name+".jsonl")
}

// OpenJournal opens (or creates) the journal for session name under dir.
// A nil logger is replaced with a no-op logger.
func OpenJournal(dir, name string, logger *zap.Logger) (*Journal, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	path := JournalPath(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{path: path, session: name, now: time.Now, logger: logger}, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

// Append adds an entry, stamping the session name and time.
func (j *Journal) Append(e JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	e.Session = j.session
	e.Timestamp = j.now().UTC()
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, string(data))
	return err
}

// Entries returns every entry in append order. Lines that fail to decode
// are skipped.
func (j *Journal) Entries() ([]JournalEntry, error) {
	f, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []JournalEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// Recorded journals a new scan event.
func (j *Journal) Recorded(ev session.Event) {
	kinds := make([]string, 0, len(ev.Warnings))
	for _, w := range ev.Warnings {
		kinds = append(kinds, w.Kind.String())
	}
	j.write(JournalEntry{Op: OpScan, EventID: ev.ID, Barcode: ev.Barcode, Warnings: kinds})
}

// Deleted journals the removal of a single event.
func (j *Journal) Deleted(ev session.Event) {
	j.write(JournalEntry{Op: OpDelete, EventID: ev.ID, Barcode: ev.Barcode})
}

// Cleared journals a full ledger reset.
func (j *Journal) Cleared(n int) {
	j.write(JournalEntry{Op: OpClear, Count: n})
}

// Bulk journals the summary of a batch operation.
func (j *Journal) Bulk(op Op, source string, res session.BulkResult) {
	j.write(JournalEntry{Op: op, Source: source, Count: res.Recorded})
}

// write appends from observer callbacks, which have no error return.
func (j *Journal) write(e JournalEntry) {
	if err := j.Append(e); err != nil {
		j.logger.Warn("journal append failed", zap.String("path", j.path), zap.Error(err))
	}
}

var _ session.Observer = (*Journal)(nil)
