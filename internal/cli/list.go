package cli

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	categories := []string{actions.ListManaged, actions.ListUnmanaged, actions.ListSlidable}

	return &cobra.Command{
		Use:   "list <category>",
		Short: "List branches of a category, one per line",
		Long: `List branches of a category, one per line. Categories:

  managed    branches listed in the layout file, in tree order
  unmanaged  local branches absent from the layout file
  slidable   managed branches merged into their parent`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return categories, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.List(actions.NewEnv(ctx), args[0])
			})
		},
	}
}

// newDeleteUnmanagedCmd creates the delete-unmanaged command
func newDeleteUnmanagedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-unmanaged",
		Short: "Delete local branches absent from the layout file",
		Long: `Delete local branches absent from the layout file, confirming each one.
The current branch is never deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.DeleteUnmanaged(cmd.Context(), actions.NewEnv(ctx))
			})
		},
	}
}
