package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/runtime"
	"trellis.dev/trellis/internal/tui"
)

// newTraverseCmd creates the traverse command
func newTraverseCmd() *cobra.Command {
	var (
		startFrom string
		returnTo  string
		fetch     bool
		merge     bool
	)

	cmd := &cobra.Command{
		Use:     "traverse",
		Aliases: []string{"t"},
		Short:   "Walk the forest, syncing each branch with its parent and remote",
		Long: `Walk the forest in pre-order, offering per branch the action its sync
state calls for: slide out branches merged into their parent, rebase (or
merge) branches that drifted from their parent, then push, pull or reset
against the remote counterpart.

Each offer is answered with y (do it), N (skip), q (stop) or yq (do it, then
stop). Quitting preserves the current checkout position.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ValidateStartFrom(startFrom); err != nil {
				return err
			}
			if err := config.ValidateReturnTo(returnTo); err != nil {
				return err
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				if ctx.Git.IsRebaseInProgress(cmd.Context()) {
					return fmt.Errorf("a rebase is in progress; finish or abort it before traversing")
				}
				if ctx.Git.HasUncommittedChanges(cmd.Context()) {
					if ctx.Config.Interactive && !ctx.Config.Yes {
						ok, err := tui.PromptConfirm("The working tree has uncommitted changes; rebases may fail halfway. Continue?", false)
						if err != nil {
							return err
						}
						if !ok {
							return nil
						}
					} else {
						ctx.Splog.Warn("The working tree has uncommitted changes; rebases may fail halfway.")
					}
				}
				if err := ctx.RequireManagedBranches(); err != nil {
					return err
				}

				_, err := actions.Traverse(cmd.Context(), actions.NewEnv(ctx), actions.TraverseOptions{
					StartFrom: startFrom,
					ReturnTo:  returnTo,
					Fetch:     fetch,
					Merge:     merge,
				})
				return err
			})
		},
	}

	cmd.Flags().StringVar(&startFrom, "start-from", config.StartFromHere, "Where the walk starts: here, root or first-root.")
	cmd.Flags().StringVar(&returnTo, "return-to", config.ReturnToStay, "Where to check out after the walk: here, nearest-remaining or stay.")
	cmd.Flags().BoolVarP(&fetch, "fetch", "F", false, "Fetch every remote before walking.")
	cmd.Flags().BoolVarP(&merge, "merge", "M", false, "Sync branches with their parents by merge instead of rebase.")

	return cmd
}
