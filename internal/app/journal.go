package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newJournalCmd() *cobra.Command {
	var (
		asJSON bool
		tail   int
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the operation log of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := sessionName()
			if err != nil {
				return err
			}
			j, err := store.OpenJournal(cfg.DataDir, name, logger)
			if err != nil {
				return err
			}
			entries, err := j.Entries()
			if err != nil {
				return err
			}
			if tail > 0 && len(entries) > tail {
				entries = entries[len(entries)-tail:]
			}

			if asJSON {
				enc := json.NewEncoder(stdout)
				for _, e := range entries {
					if err := enc.Encode(e); err != nil {
						return err
					}
				}
				return nil
			}
			if len(entries) == 0 {
				warn("Journal of %s is empty", name)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(stdout, "%s  %-6s %s\n",
					color.HiBlackString(e.Timestamp.Local().Format(time.DateTime)), e.Op, describeEntry(e))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON lines")
	cmd.Flags().IntVar(&tail, "tail", 0, "Only show the last N entries")
	return cmd
}

func describeEntry(e store.JournalEntry) string {
	switch e.Op {
	case store.OpScan:
		s := e.Barcode
		if len(e.Warnings) > 0 {
			s += "  " + color.YellowString(strings.Join(e.Warnings, ", "))
		}
		return s
	case store.OpDelete:
		return e.EventID + " " + e.Barcode
	case store.OpClear:
		return fmt.Sprintf("%d events", e.Count)
	default:
		return fmt.Sprintf("%s: %d recorded", e.Source, e.Count)
	}
}
