package cli

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newAddCmd creates the add command
func newAddCmd() *cobra.Command {
	var (
		onto   string
		asRoot bool
	)

	cmd := &cobra.Command{
		Use:   "add [branch]",
		Short: "Add a branch to the forest",
		Long: `Add a branch to the forest. Without arguments the current branch is
added; a branch that does not exist locally is created at HEAD after
confirmation. Without --onto or --as-root the parent is inferred from the
commit graph and confirmed.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Add(cmd.Context(), actions.NewEnv(ctx), actions.AddOptions{
					Name:   name,
					Onto:   onto,
					AsRoot: asRoot,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&onto, "onto", "o", "", "The parent to add the branch under.")
	cmd.Flags().BoolVarP(&asRoot, "as-root", "R", false, "Add the branch as a new root.")
	_ = cmd.RegisterFlagCompletionFunc("onto", helpers.CompleteManagedBranches)

	return cmd
}
