package cli

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newSlideOutCmd creates the slide-out command
func newSlideOutCmd() *cobra.Command {
	var (
		merge         bool
		deleteBranch  bool
		downForkPoint string
	)

	cmd := &cobra.Command{
		Use:   "slide-out [branches...]",
		Short: "Remove a chain of branches from the forest, reattaching their children",
		Long: `Remove a contiguous chain of branches from the forest. The last branch's
children reattach to the chain's original parent and are rebased (or merged)
onto it. Without arguments the current branch is slid out.

The branches must form a parent-to-child chain; a slide-out that would break
the forest is rejected before any git command runs.`,
		ValidArgsFunction: helpers.CompleteManagedBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SlideOut(cmd.Context(), actions.NewEnv(ctx), actions.SlideOutOptions{
					Branches:      args,
					Merge:         merge,
					Delete:        deleteBranch,
					DownForkPoint: downForkPoint,
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&merge, "merge", "M", false, "Sync the reattached children by merge instead of rebase.")
	cmd.Flags().BoolVarP(&deleteBranch, "delete", "d", false, "Delete the local branches after sliding them out.")
	cmd.Flags().StringVar(&downForkPoint, "down-fork-point", "", "Rebase the reattached child from this commit instead of its inferred fork point.")

	return cmd
}
