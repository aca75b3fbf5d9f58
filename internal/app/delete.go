package app

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a single scan from the current session",
		Long: `Remove one scan event by ID (see: shelfcount session show).

When it was the last scan of its barcode, the barcode can be scanned again
without a duplicate warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer w.close()

			ev, found := w.session.Event(args[0])
			if err := w.session.DeleteScan(args[0]); err != nil {
				if errors.Is(err, session.ErrEventNotFound) {
					return fmt.Errorf("%w in session %s", err, w.session.Name())
				}
				return err
			}
			w.save(cmd.Context())
			if found {
				ok("Deleted %s (%s)", args[0], ev.Barcode)
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every scan from the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer w.close()

			n := w.session.Len()
			if n == 0 {
				warn("Session %s has no scans", w.session.Name())
				return nil
			}
			if !yes {
				if !util.IsInputTTY() {
					return fmt.Errorf("refusing to clear %d scans without --yes", n)
				}
				fmt.Fprintf(stdout, "Remove all %d scans from %s? (y/n): ", n, w.session.Name())
				var response string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
				if response != "y" && response != "Y" && response != "yes" {
					fmt.Fprintln(stdout, color.YellowString("Cancelled."))
					return nil
				}
			}

			w.session.ClearAll()
			w.save(cmd.Context())
			ok("Cleared %d scans from %s", n, w.session.Name())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
