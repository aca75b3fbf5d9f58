package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/shelfcount/internal/config"
	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		library  string
		location string
		dataDir  string
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the config file and create the data directory",
		Long: `Write the shelfcount config file and create the data directory.

Existing settings are kept unless a flag overrides them, so init can be
re-run to switch library or store backend.`,
		Example: `  # Count library 12, sessions in SQLite
  shelfcount init --library 12 --backend sqlite

  # Restrict counting to one shelf location
  shelfcount init --location AB`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("library") {
				cfg.Library.Code = library
			}
			if cmd.Flags().Changed("location") {
				cfg.Library.Location = location
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = util.ExpandHome(dataDir)
			}
			if cmd.Flags().Changed("backend") {
				cfg.Store.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := config.Path(flagConfig)
			if err := config.Save(flagConfig, cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)

			if err := util.EnsureDir(cfg.DataDir); err != nil {
				return fmt.Errorf("creating data dir: %w", err)
			}
			if _, err := os.Stat(cfg.ReferencesPath()); os.IsNotExist(err) {
				if err := reference.Save(cfg.ReferencesPath(), &reference.Set{}); err != nil {
					return err
				}
			}
			ok("Data directory %s", cfg.DataDir)

			if cfg.Library.Code == "" {
				warn("No library selected. Re-run with --library CODE")
			}
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "Next steps:")
			fmt.Fprintf(stdout, "  %s\n", color.CyanString("shelfcount catalog import FILE"))
			fmt.Fprintf(stdout, "  %s\n", color.CyanString("shelfcount session new NAME"))
			return nil
		},
	}

	cmd.Flags().StringVar(&library, "library", "", "Numeric code of the library being counted")
	cmd.Flags().StringVar(&location, "location", "", "Only expect items from this shelf location")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for the catalog, sessions and journals")
	cmd.Flags().StringVar(&backend, "backend", "", "Session store: file or sqlite")
	return cmd
}
