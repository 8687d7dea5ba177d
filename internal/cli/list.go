package cli

import (
	"fmt"

	"github.com/qtinst/qtinst/internal/fetch"
	"github.com/qtinst/qtinst/internal/index"
	"github.com/qtinst/qtinst/internal/models"
	"github.com/qtinst/qtinst/internal/planner"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list-qt command
func NewListCmd() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "list-qt <host> <target> <version> [<arch>]",
		Short: "List available architectures or modules",
		Long: `Without an architecture, prints the architectures available for the
tuple. With one, prints the module names installable for it.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, target := args[0], args[1]
			if err := validateHostTarget(host, target); err != nil {
				return err
			}
			version, err := models.ParseVersion(args[2])
			if err != nil {
				return err
			}

			if base == "" {
				base = planner.DefaultBaseURL
			}
			loader := index.NewLoader(fetch.NewClient())
			idx, err := loader.Load(cmd.Context(), planner.RepositoryURL(base, host, target, version))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 3 {
				for _, m := range index.Modules(idx, args[3]) {
					fmt.Fprintln(out, m.Name)
				}
				return nil
			}
			for _, arch := range index.Architectures(idx) {
				fmt.Fprintln(out, arch)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Mirror base URL override")

	return cmd
}
