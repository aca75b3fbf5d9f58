package app

import (
	"encoding/json"
	"fmt"

	"github.com/blackwell-systems/shelfcount/internal/metrics"
	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/store"
	"github.com/blackwell-systems/shelfcount/internal/tui"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var (
		asJSON     bool
		metricsOut string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show coverage and warning counts of the current session",
		Long: `Show how much of the library's active collection has been counted.

Items are valid once scanned without warnings, warned when every scan of
them carried a warning, and missing when never scanned. Withdrawn items
and items of other libraries are not counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer w.close()

			in := w.reportInput()
			summary := report.Summarize(in)

			if metricsOut != "" {
				if err := writeMetrics(w, in, summary, metricsOut); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			if w.catalogChanged() {
				warn("The catalog was re-imported since this session started; results use the new catalog")
			}
			if tui.ShouldUseTUI(cmd) {
				fmt.Fprintln(stdout, tui.SummaryBox(summary, min(util.TermWidth(), 80)))
				return nil
			}
			printSummary(summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Also write Prometheus metrics to this file")
	return cmd
}

// writeMetrics exports the surviving events and the coverage of the
// session, with deletions and clears taken from its journal.
func writeMetrics(w *workspace, in report.Input, summary report.Summary, path string) error {
	c := metrics.New()
	for _, ev := range in.State.Events {
		c.Recorded(ev)
	}
	entries, err := w.journal.Entries()
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	for _, e := range entries {
		switch e.Op {
		case store.OpDelete:
			c.Deleted(session.Event{ID: e.EventID, Barcode: e.Barcode})
		case store.OpClear:
			c.Cleared(e.Count)
		}
	}
	c.Observe(summary)
	return c.WriteTextfile(path)
}

func printSummary(s report.Summary) {
	header("Session %s · %s", s.Session, s.Library)
	c := s.Coverage
	fmt.Fprintf(stdout, "  %-10s %d\n", "valid:", c.Valid)
	fmt.Fprintf(stdout, "  %-10s %d\n", "warned:", c.Warned)
	fmt.Fprintf(stdout, "  %-10s %d\n", "missing:", c.Missing)
	fmt.Fprintf(stdout, "  %-10s %d (%.1f%% counted)\n", "total:", c.Total, c.Percent())
	fmt.Fprintf(stdout, "  %-10s %d (%s/min)\n", "events:", s.Events, s.Throughput)

	fmt.Fprintln(stdout)
	header("Warnings")
	for _, kc := range s.Kinds {
		n := fmt.Sprint(kc.Count)
		if kc.Count > 0 {
			n = color.YellowString(n)
		}
		fmt.Fprintf(stdout, "  %-28s %s\n", kc.Label, n)
	}

	if len(s.Locations) > 0 {
		fmt.Fprintln(stdout)
		header("Locations")
		for _, l := range s.Locations {
			fmt.Fprintf(stdout, "  %-6s %-24s %5d / %-5d\n", l.Code, l.Name, l.Valid+l.Warned, l.Total)
		}
	}
	if len(s.Materials) > 0 {
		fmt.Fprintln(stdout)
		header("Material types")
		for _, m := range s.Materials {
			fmt.Fprintf(stdout, "  %-24s %5d / %-5d\n", m.Type, m.Scanned, m.Total)
		}
	}
}
