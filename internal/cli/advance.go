package cli

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newAdvanceCmd creates the advance command
func newAdvanceCmd() *cobra.Command {
	var push bool

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Fast-forward the current branch to a child and slide the child out",
		Long: `Fast-forward the current branch to the tip of one of its children that
is in sync with it, then slide that child out so its own children move up.
Several eligible children prompt for a choice.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Advance(cmd.Context(), actions.NewEnv(ctx), actions.AdvanceOptions{
					Push: push,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&push, "push", false, "Push the advanced branch without asking.")

	return cmd
}
