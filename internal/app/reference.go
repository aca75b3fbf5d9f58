package app

import (
	"fmt"

	"github.com/blackwell-systems/shelfcount/internal/reference"
	"github.com/spf13/cobra"
)

type referenceKind struct {
	use    string
	noun   string
	table  func(*reference.Set) reference.Table
	add    func(*reference.Set, string, string) error
	sample string
}

var (
	referenceLibraries = referenceKind{
		use:    "libraries",
		noun:   "library",
		table:  func(s *reference.Set) reference.Table { return s.Libraries },
		add:    (*reference.Set).AddLibrary,
		sample: `shelfcount libraries add 12 "Central Library"`,
	}
	referenceLocations = referenceKind{
		use:    "locations",
		noun:   "location",
		table:  func(s *reference.Set) reference.Table { return s.Locations },
		add:    (*reference.Set).AddLocation,
		sample: `shelfcount locations add AB "Adult fiction"`,
	}
)

func newReferenceCmd(k referenceKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   k.use,
		Short: fmt.Sprintf("Manage %s code names", k.noun),
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "add CODE NAME",
		Short:   fmt.Sprintf("Add or rename a %s code", k.noun),
		Example: "  " + k.sample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := loadRefs()
			if err != nil {
				return err
			}
			if err := k.add(refs, args[0], args[1]); err != nil {
				return err
			}
			if err := reference.Save(cfg.ReferencesPath(), refs); err != nil {
				return err
			}
			ok("%s %s is %q", k.noun, args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List known %s codes", k.noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := loadRefs()
			if err != nil {
				return err
			}
			t := k.table(refs)
			if len(t) == 0 {
				warn("No %s codes yet. Example: %s", k.noun, k.sample)
				return nil
			}
			for _, code := range t.Codes() {
				fmt.Fprintf(stdout, "  %-8s %s\n", code, t.Display(code))
			}
			return nil
		},
	})
	return cmd
}
