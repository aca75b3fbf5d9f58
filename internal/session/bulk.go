package session

import (
	"context"
	"fmt"
	"runtime"

	"github.com/blackwell-systems/shelfcount/internal/barcode"
	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of inputs applied per atomic chunk.
const DefaultChunkSize = 250

// BulkOptions controls a batch ingestion.
type BulkOptions struct {
	// Suppress skips tone requests; only the ledger is mutated.
	Suppress  bool
	ChunkSize int
	// Progress is called after every chunk with the inputs consumed so far.
	Progress func(done, total int)
}

// BulkResult summarizes a batch ingestion.
type BulkResult struct {
	Processed int // inputs consumed, always a chunk boundary or the total
	Recorded  int // events created
	Skipped   int // inputs without digits
	Replaced  int // events removed by loan overrides
}

// BulkIngest applies AddScan to every input in order. Later inputs see
// earlier ones as seen. Inputs are applied in chunks that are atomic with
// respect to other ledger calls; cancellation is honored between chunks so
// the ledger always ends at a chunk boundary.
func (s *Session) BulkIngest(ctx context.Context, raws []string, opts BulkOptions) (BulkResult, error) {
	res, err := s.chunked(ctx, raws, opts, func(raw string, res *BulkResult, _ *[]Event) (*Event, error) {
		ev, err := s.addLocked(raw)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			res.Skipped++
		}
		return ev, nil
	})
	s.opts.Logger.Info("bulk ingest",
		zap.Int("inputs", len(raws)),
		zap.Int("processed", res.Processed),
		zap.Int("recorded", res.Recorded),
		zap.Int("skipped", res.Skipped),
		zap.Error(err))
	return res, err
}

// ApplyLoanOverrides reconciles items lent during the count: every barcode
// in raws replaces all of its existing events with a single event flagged
// only as on loan. Observers see every replaced event as deleted.
func (s *Session) ApplyLoanOverrides(ctx context.Context, raws []string, opts BulkOptions) (BulkResult, error) {
	res, err := s.chunked(ctx, raws, opts, func(raw string, res *BulkResult, removed *[]Event) (*Event, error) {
		n := barcode.Normalize(raw, s.library)
		if n.Empty() {
			res.Skipped++
			return nil, nil
		}
		for i := len(s.events) - 1; i >= 0; i-- {
			if s.events[i].Barcode == n.Barcode {
				*removed = append(*removed, s.events[i])
				s.events = append(s.events[:i], s.events[i+1:]...)
				res.Replaced++
			}
		}
		delete(s.seen, n.Barcode)

		var (
			rec *catalog.Record
			due string
		)
		if r, found := s.opts.Index.Lookup(n.Barcode); found {
			rec, due = &r, r.DueDate
		}
		ev, err := s.recordLocked(raw, n.Barcode, rec, []classify.Warning{classify.OnLoanWarning(due)})
		if err != nil {
			return nil, err
		}
		return ev, nil
	})
	s.opts.Logger.Info("loan overrides applied",
		zap.Int("inputs", len(raws)),
		zap.Int("recorded", res.Recorded),
		zap.Int("replaced", res.Replaced),
		zap.Error(err))
	return res, err
}

type applyFunc func(raw string, res *BulkResult, removed *[]Event) (*Event, error)

func (s *Session) chunked(ctx context.Context, raws []string, opts BulkOptions, apply applyFunc) (BulkResult, error) {
	size := opts.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	var res BulkResult
	for start := 0; start < len(raws); start += size {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("ingest stopped after %d of %d inputs: %w", res.Processed, len(raws), err)
		}
		end := min(start+size, len(raws))

		recorded, removed, err := s.applyChunk(raws[start:end], &res, apply)
		if err != nil {
			return res, err
		}
		res.Processed = end

		if !opts.Suppress {
			for _, ev := range recorded {
				s.opts.Notifier.Signal(ev.Tone())
			}
		}
		for _, ev := range removed {
			s.observeDeleted(ev)
		}
		for _, ev := range recorded {
			s.observeRecorded(ev)
		}
		if opts.Progress != nil {
			opts.Progress(end, len(raws))
		}
		runtime.Gosched()
	}
	return res, nil
}

// applyChunk holds the ledger lock for the whole chunk. A failure restores
// the ledger to its state before the chunk.
func (s *Session) applyChunk(chunk []string, res *BulkResult, apply applyFunc) (recorded, removed []Event, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	savedEvents := append([]Event(nil), s.events...)
	savedSeen := make(map[string]int, len(s.seen))
	for k, v := range s.seen {
		savedSeen[k] = v
	}
	before := *res

	for _, raw := range chunk {
		ev, err := apply(raw, res, &removed)
		if err != nil {
			s.events, s.seen, *res = savedEvents, savedSeen, before
			return nil, nil, err
		}
		if ev != nil {
			recorded = append(recorded, *ev)
			res.Recorded++
		}
	}
	return recorded, removed, nil
}
