package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/store"
	"github.com/blackwell-systems/shelfcount/internal/tui"
	"github.com/blackwell-systems/shelfcount/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, list and switch inventory sessions",
	}
	cmd.AddCommand(newSessionNewCmd(), newSessionListCmd(), newSessionShowCmd(), newSessionUseCmd())
	return cmd
}

func newSessionNewCmd() *cobra.Command {
	var library, location string
	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Start an empty session and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := store.ValidateName(name); err != nil {
				return err
			}
			if library == "" {
				library = cfg.Library.Code
			}
			if library == "" {
				return errors.New("no library selected: pass --library or run shelfcount init --library CODE")
			}
			if !cmd.Flags().Changed("location") {
				location = cfg.Library.Location
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			if _, err := st.Load(ctx, name); err == nil {
				return fmt.Errorf("session %q already exists (use: shelfcount session use %s)", name, name)
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			s := session.New(name, library, location, session.Options{Logger: logger})
			snap := s.Snapshot()
			if meta, err := catalogManager().Meta(); err == nil {
				snap.CatalogSHA = meta.SHA256
			}
			if err := st.Save(ctx, snap); err != nil {
				return err
			}
			if err := store.SetCurrent(cfg.DataDir, name); err != nil {
				return err
			}
			logger.Info("session created",
				zap.String("session", name),
				zap.String("id", s.ID()),
				zap.String("library", library),
				zap.String("location", location))

			refs, err := loadRefs()
			if err != nil {
				return err
			}
			ok("Session %s started for %s", color.CyanString(name), refs.Libraries.Display(library))
			if location != "" {
				ok("Expecting location %s", refs.Locations.Display(location))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&library, "library", "", "Library code (default: configured library)")
	cmd.Flags().StringVar(&location, "location", "", "Location filter (default: configured location)")
	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				warn("No sessions yet. Run: shelfcount session new NAME")
				return nil
			}
			current, _ := store.Current(cfg.DataDir)
			for _, e := range entries {
				marker := " "
				if e.Name == current {
					marker = color.GreenString("*")
				}
				loc := e.LocationCode
				if loc == "" {
					loc = "-"
				}
				fmt.Fprintf(stdout, "%s %-24s lib %-6s loc %-6s %6d events  %s\n",
					marker, e.Name, e.LibraryCode, loc, e.Events, e.UpdatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func newSessionShowCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "show [NAME]",
		Short: "Show a session and its most recent scans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flagSession = args[0]
			}
			w, err := openWorkspace(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer w.close()

			s := w.session
			header("Session %s", s.Name())
			fmt.Fprintf(stdout, "  %-10s %s\n", "id:", s.ID())
			fmt.Fprintf(stdout, "  %-10s %s (%s)\n", "library:", w.refs.Libraries.Display(s.LibraryCode()), s.LibraryCode())
			if s.LocationCode() != "" {
				fmt.Fprintf(stdout, "  %-10s %s (%s)\n", "location:", w.refs.Locations.Display(s.LocationCode()), s.LocationCode())
			}
			fmt.Fprintf(stdout, "  %-10s %d (%d distinct)\n", "events:", s.Len(), s.SeenBarcodes())
			if w.catalogChanged() {
				warn("The catalog was re-imported since this session started")
			}

			events := s.Events()
			if len(events) == 0 {
				return nil
			}
			fmt.Fprintln(stdout)
			width := 0
			if tui.ShouldUseTUI(cmd) {
				width = util.TermWidth()
			}
			for i, ev := range events {
				if limit > 0 && i == limit {
					fmt.Fprintf(stdout, "  … %d older\n", len(events)-limit)
					break
				}
				fmt.Fprintf(stdout, "  %s  %s\n", color.HiBlackString(ev.ID), tui.EventLine(ev, width-len(ev.ID)-4))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Scans to list (0 for all)")
	return cmd
}

func newSessionUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Make a stored session current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if _, err := st.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := store.SetCurrent(cfg.DataDir, args[0]); err != nil {
				return err
			}
			ok("Current session is %s", args[0])
			return nil
		},
	}
}
