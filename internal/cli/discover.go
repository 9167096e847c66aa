package cli

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newDiscoverCmd creates the discover command
func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Rebuild the layout file from the local branches",
		Long: `Rebuild the layout file from the local branches: main, master and develop
become roots, every other branch attaches to the local branch whose tip is
its nearest ancestor, and branches with no ancestor become extra roots.

The discovered forest is shown and confirmed before the existing layout file
is backed up and overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Discover(actions.NewEnv(ctx))
			})
		},
	}
}
