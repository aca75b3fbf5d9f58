package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/notify"
	"github.com/blackwell-systems/shelfcount/internal/tui"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		quiet bool
		chime bool
	)
	cmd := &cobra.Command{
		Use:   "scan [BARCODE...]",
		Short: "Record scanned or typed barcodes",
		Long: `Record barcodes in the current session.

Barcodes are taken from the arguments, or read one per line from stdin
when none are given. Short input is completed with the library prefix.
Each scan prints its warnings and rings the terminal bell once for a
single warning and twice for several.`,
		Example: `  # Interactive: type or scan, one barcode per line, ctrl+d to finish
  shelfcount scan

  shelfcount scan 101200004711 4712`,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := len(args) == 0 && util.IsInputTTY()

			var notifier notify.Port = notify.Nop{}
			if !quiet && util.IsTTY() {
				notifier = notify.Bell{W: stderr, Chime: chime}
			}
			w, err := openWorkspace(cmd.Context(), notifier)
			if err != nil {
				return err
			}
			defer w.close()

			width := 0
			if tui.ShouldUseTUI(cmd) {
				width = util.TermWidth()
			}
			record := func(raw string) error {
				ev, err := w.session.AddScan(raw)
				if err != nil {
					return err
				}
				if ev == nil {
					warn("No digits in %q, nothing recorded", raw)
					return nil
				}
				fmt.Fprintln(stdout, tui.EventLine(*ev, width))
				return nil
			}

			if len(args) > 0 {
				for _, raw := range args {
					if err := record(raw); err != nil {
						return err
					}
				}
				w.save(cmd.Context())
				return nil
			}

			if interactive {
				header("Scanning into %s (%s). ctrl+d to finish.", w.session.Name(), w.refs.Libraries.Display(w.session.LibraryCode()))
			}
			err = readScans(cmd.InOrStdin(), interactive, func(raw string) error {
				if err := record(raw); err != nil {
					return err
				}
				// Save after every interactive scan so an interrupted count loses nothing.
				if interactive {
					w.save(cmd.Context())
				}
				return cmd.Context().Err()
			})
			if !interactive {
				w.save(cmd.Context())
			}
			if err != nil {
				return err
			}
			ok("%d events in %s", w.session.Len(), w.session.Name())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not ring the terminal bell")
	cmd.Flags().BoolVar(&chime, "chime", false, "Also ring for clean scans")
	return cmd
}

// readScans calls fn for every non-blank line of r, prompting when
// interactive.
func readScans(r io.Reader, interactive bool, fn func(raw string) error) error {
	sc := bufio.NewScanner(r)
	for {
		if interactive {
			fmt.Fprint(stderr, color.CyanString("> "))
		}
		if !sc.Scan() {
			return sc.Err()
		}
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
}
