package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/config"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	flagNoColor       bool
	flagNoInteractive bool
	flagVerbose       bool
	flagConfig        string
	flagSession       string
)

// NewRootCmd builds the shelfcount command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfcount",
		Short: "Physical inventory counts against a catalog extract",
		Long: `shelfcount records a shelf-by-shelf inventory count of a library.

Import the catalog extract once, start a session for the library being
counted, then scan or type barcodes. Every scan is checked against the
catalog and flagged when it belongs elsewhere, is not loanable, withdrawn,
on loan, unknown or already counted. Status and export commands report
coverage and the lists needed to follow up.`,
		Example: `  shelfcount init --library 12
  shelfcount catalog import extract.csv
  shelfcount session new spring-2026
  shelfcount scan
  shelfcount status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			stdout, stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
			util.InitColor(flagNoColor)

			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			// init repairs an invalid config, everything else needs a valid one.
			if cmd.Name() != "init" {
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid config %s:\n%w", config.Path(flagConfig), err)
				}
			}

			logger, err = newLogger(cfg.Log.Level, flagVerbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI output")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/shelfcount/config.yml)")
	cmd.PersistentFlags().StringVar(&flagSession, "session", "", "Session to operate on (default: the current session)")

	cmd.AddCommand(
		newInitCmd(),
		newCatalogCmd(),
		newSessionCmd(),
		newScanCmd(),
		newIngestCmd(),
		newDeleteCmd(),
		newClearCmd(),
		newStatusCmd(),
		newExportCmd(),
		newReferenceCmd(referenceLibraries),
		newReferenceCmd(referenceLocations),
		newJournalCmd(),
		newVersionCmd(),
	)
	return cmd
}

// newLogger builds a production zap logger on stderr. verbose forces debug.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.Sampling = nil
	return zcfg.Build()
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Fprintln(stdout, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Fprintln(stdout, color.CyanString(fmt.Sprintf(format, a...)))
}
