package cli

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var listCommits bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"s"},
		Short:   "Show the forest of managed branches with their sync states",
		Long: `Show the forest of managed branches with their sync states.

Each branch's edge to its parent is colored green (in sync), yellow (in sync
but the inferred fork point is not the parent tip), red (out of sync) or grey
(merged into the parent). Branches with a remote counterpart additionally show
whether they are ahead of, behind or diverged from it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Status(actions.NewEnv(ctx), actions.StatusOptions{
					ListCommits: listCommits,
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&listCommits, "list-commits", "l", false, "List each branch's commits that are not in its parent.")

	return cmd
}
