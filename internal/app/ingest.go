package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/notify"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/store"
	"github.com/blackwell-systems/shelfcount/internal/tui"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var (
		loans     bool
		bell      bool
		chunkSize int
	)
	cmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Record a barcode list, or reconcile items on loan",
		Long: `Record every barcode of a list file in the current session.

The file holds one barcode per line, or barcodes in the first column of a
CSV/TSV file. Entries are processed in order in chunks; interrupting the
run keeps every completed chunk.

With --loans the file lists items lent out during the count: each one
replaces all of its scans with a single on-loan entry.`,
		Example: `  shelfcount ingest handheld-export.txt
  shelfcount ingest --loans loans-today.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raws, err := catalog.ReadRawList(args[0])
			if err != nil {
				return err
			}

			var notifier notify.Port = notify.Nop{}
			if bell && util.IsTTY() {
				notifier = notify.Bell{W: stderr}
			}
			w, err := openWorkspace(cmd.Context(), notifier)
			if err != nil {
				return err
			}
			defer w.close()

			if chunkSize <= 0 {
				chunkSize = cfg.Ingest.ChunkSize
			}
			opts := session.BulkOptions{Suppress: !bell, ChunkSize: chunkSize}
			op, run := store.OpIngest, w.session.BulkIngest
			if loans {
				op, run = store.OpLoans, w.session.ApplyLoanOverrides
			}

			label := fmt.Sprintf("Ingesting %s into %s", filepath.Base(args[0]), w.session.Name())
			res, runErr := runBulk(cmd, label, raws, opts, run)

			w.journal.Bulk(op, args[0], res)
			w.save(cmd.Context())

			ok("%d of %d inputs processed: %d recorded, %d without digits", res.Processed, len(raws), res.Recorded, res.Skipped)
			if loans {
				ok("%d earlier scans replaced by on-loan entries", res.Replaced)
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&loans, "loans", false, "Treat the file as on-loan overrides")
	cmd.Flags().BoolVar(&bell, "bell", false, "Ring the terminal bell for every entry")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Entries per chunk (default: ingest.chunk_size)")
	return cmd
}

type bulkFunc func(ctx context.Context, raws []string, opts session.BulkOptions) (session.BulkResult, error)

// runBulk runs fn, showing a progress bar on a terminal. Cancelling the
// bar stops fn at its next chunk boundary.
func runBulk(cmd *cobra.Command, label string, raws []string, opts session.BulkOptions, fn bulkFunc) (session.BulkResult, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if !tui.ShouldUseTUI(cmd) || len(raws) == 0 {
		return fn(ctx, raws, opts)
	}

	progressCh := make(chan int, 16)
	opts.Progress = tui.ProgressFunc(progressCh)

	var (
		res    session.BulkResult
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(progressCh)
		res, runErr = fn(ctx, raws, opts)
	}()

	if err := tui.ShowProgress(label, len(raws), progressCh, cancel); err != nil && !errors.Is(err, tui.ErrCancelled) {
		warn("progress display failed: %v", err)
	}
	<-done
	return res, runErr
}
