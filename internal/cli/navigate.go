package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
	"trellis.dev/trellis/internal/tui"
)

var directions = []string{
	actions.DirectionUp, actions.DirectionDown, actions.DirectionFirst,
	actions.DirectionLast, actions.DirectionNext, actions.DirectionPrev,
	actions.DirectionRoot, actions.DirectionCurrent,
}

func completeDirections(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return directions, cobra.ShellCompDirectiveNoFileComp
}

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "show <direction> [branch]",
		Short: "Print the branch a direction resolves to",
		Long: `Print the branch a direction resolves to, relative to the given branch
(the current one by default). Directions: up, down, first, last, next, prev,
root, current.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeDirections,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := actions.ValidateDirection(args[0]); err != nil {
				return err
			}
			from := branch
			if len(args) > 1 {
				if from != "" {
					return fmt.Errorf("--branch cannot be combined with a positional branch")
				}
				from = args[1]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Show(actions.NewEnv(ctx), from, args[0])
			})
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Resolve relative to this branch instead of the current one.")
	_ = cmd.RegisterFlagCompletionFunc("branch", helpers.CompleteManagedBranches)

	return cmd
}

// newGoCmd creates the go command
func newGoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "go [direction]",
		Aliases: []string{"g"},
		Short:   "Check out the branch a direction resolves to",
		Long: `Check out the branch a direction resolves to, relative to the current
branch. Directions: up, down, first, last, next, prev, root, current.

Without a direction, pick any managed branch from a filterable list.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDirections,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return helpers.Run(cmd, func(ctx *runtime.Context) error {
					return pickAndCheckout(cmd, ctx)
				})
			}
			if err := actions.ValidateDirection(args[0]); err != nil {
				return err
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Go(cmd.Context(), actions.NewEnv(ctx), args[0])
			})
		},
	}
}

// pickAndCheckout offers every managed branch, indented to show the forest
// shape, and checks out the selection
func pickAndCheckout(cmd *cobra.Command, ctx *runtime.Context) error {
	if err := ctx.RequireManagedBranches(); err != nil {
		return err
	}

	current, _ := ctx.Git.CurrentBranch()
	names := ctx.Layout.Names()
	choices := make([]tui.BranchChoice, len(names))
	initial := 0
	for i, name := range names {
		display := strings.Repeat("  ", ctx.Layout.Depth(name)) + name
		if name == current {
			display += " *"
			initial = i
		}
		choices[i] = tui.BranchChoice{Display: display, Value: name}
	}

	target, err := tui.PromptBranchSelection("Check out which branch?", choices, initial)
	if err != nil {
		return err
	}
	if err := ctx.Git.Checkout(cmd.Context(), target); err != nil {
		return err
	}
	ctx.Engine.InvalidateCaches()
	return nil
}
