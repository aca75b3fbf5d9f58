package app

import (
	"fmt"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Import and inspect the catalog extract",
	}
	cmd.AddCommand(newCatalogImportCmd(), newCatalogInfoCmd(), newCatalogSearchCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the catalog with a CSV or Parquet extract",
		Long: `Replace the stored catalog with a CSV, TSV or Parquet extract.

The file must have a barcode column. Headers are matched case and accent
insensitively; extra spellings can be configured under catalog.columns.
A rejected file leaves the previous catalog in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := catalogManager().Import(args[0])
			if err != nil {
				return err
			}
			logger.Info("catalog imported",
				zap.String("source", meta.Source),
				zap.Int("records", meta.Records),
				zap.String("sha256", meta.SHA256))
			ok("Imported %d records from %s", meta.Records, args[0])
			return nil
		},
	}
}

func newCatalogInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the imported catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, meta, err := catalogManager().Load()
			if err != nil {
				return err
			}
			refs, err := loadRefs()
			if err != nil {
				return err
			}

			header("Catalog")
			fmt.Fprintf(stdout, "  %-12s %s\n", "source:", meta.Source)
			fmt.Fprintf(stdout, "  %-12s %s\n", "imported:", meta.ImportedAt)
			fmt.Fprintf(stdout, "  %-12s %s\n", "sha256:", meta.SHA256)
			fmt.Fprintf(stdout, "  %-12s %d\n", "records:", meta.Records)

			counts := map[string]int{}
			for _, r := range idx.All() {
				counts[r.OwnerLibraryCode]++
			}
			fmt.Fprintln(stdout)
			header("Libraries")
			for _, code := range librariesIn(counts) {
				marker := " "
				if code == cfg.Library.Code {
					marker = color.GreenString("*")
				}
				fmt.Fprintf(stdout, "  %s %-6s %-30s %d\n", marker, code, refs.Libraries.Display(code), counts[code])
			}
			return nil
		},
	}
}

func newCatalogSearchCmd() *cobra.Command {
	var (
		filter catalog.Filter
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search the catalog by barcode or title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, _, err := catalogManager().Load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				filter.Search = args[0]
			}
			if filter.Library == "" {
				filter.Library = cfg.Library.Code
			}
			matches := filter.Apply(idx.All())
			for i, r := range matches {
				if limit > 0 && i == limit {
					warn("%d more matches not shown (raise --limit)", len(matches)-limit)
					break
				}
				fmt.Fprintf(stdout, "%s  %-4s %-4s %s\n", r.Barcode, r.OwnerLibraryCode, r.LocationCode, r.Title)
			}
			if len(matches) == 0 {
				warn("No matching records")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Library, "library", "", "Owner library code (default: configured library)")
	cmd.Flags().StringVar(&filter.Location, "location", "", "Location code")
	cmd.Flags().StringVar(&filter.Material, "material", "", "Material type")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum matches to print (0 for all)")
	return cmd
}

// librariesIn returns the library codes of counts in reference order.
func librariesIn(counts map[string]int) []string {
	t := make(reference.Table, len(counts))
	for code := range counts {
		t[code] = ""
	}
	return t.Codes()
}
