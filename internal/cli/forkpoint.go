package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/runtime"
)

// newForkPointCmd creates the fork-point command
func newForkPointCmd() *cobra.Command {
	var (
		overrideTo    string
		inferred      bool
		unsetOverride bool
	)

	cmd := &cobra.Command{
		Use:   "fork-point [branch]",
		Short: "Print or override the fork point of a branch",
		Long: `Print or override the fork point of a branch: the commit after which its
unique history begins, and so the default start of any rebase of it.

The fork point is inferred from the reflogs of the other branches. An
override pins it to a fixed commit; a stale override (no longer an ancestor
of the branch) is ignored with a warning.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteManagedBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inferred && (overrideTo != "" || unsetOverride) {
				return fmt.Errorf("--inferred cannot be combined with --override-to or --unset-override")
			}
			if overrideTo != "" && unsetOverride {
				return fmt.Errorf("--override-to and --unset-override are mutually exclusive")
			}

			branch := ""
			if len(args) > 0 {
				branch = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ForkPoint(actions.NewEnv(ctx), actions.ForkPointOptions{
					Branch:        branch,
					OverrideTo:    overrideTo,
					Inferred:      inferred,
					UnsetOverride: unsetOverride,
				})
			})
		},
	}

	cmd.Flags().StringVar(&overrideTo, "override-to", "", "Pin the fork point to this revision.")
	cmd.Flags().BoolVar(&inferred, "inferred", false, "Print the inferred fork point, ignoring any override.")
	cmd.Flags().BoolVar(&unsetOverride, "unset-override", false, "Remove a pinned fork point.")

	return cmd
}
