package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func exportKinds() string {
	names := make([]string, len(report.Kinds))
	for i, k := range report.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export KIND",
		Short: "Write a categorized list from the current session",
		Long: fmt.Sprintf(`Write one of the session's follow-up lists.

Kinds: %s

The write-off list is the plain barcode list of missing items and defaults
to txt; every other list defaults to csv.`, exportKinds()),
		Example: `  shelfcount export missing -o missing.csv
  shelfcount export write-off -o write-off.txt
  shelfcount export wrong-library --format json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			names := make([]string, len(report.Kinds))
			for i, k := range report.Kinds {
				names[i] = string(k)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := report.Kind(args[0])
			f := report.Format(format)
			if f == "" {
				f = report.FormatCSV
				if kind == report.ExportWriteOff {
					f = report.FormatText
				}
			}

			w, err := openWorkspace(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer w.close()

			tbl, err := report.Export(kind, w.reportInput())
			if err != nil {
				return fmt.Errorf("%w (kinds: %s)", err, exportKinds())
			}

			var out io.Writer = stdout
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			if err := report.Write(out, tbl, f); err != nil {
				return err
			}

			logger.Info("list exported",
				zap.String("kind", string(kind)),
				zap.String("format", string(f)),
				zap.Int("rows", len(tbl.Rows)))
			if output != "" && output != "-" {
				ok("Wrote %d rows to %s", len(tbl.Rows), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv, json or txt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
