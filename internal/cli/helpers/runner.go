// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution
// function. The global flags of the root command are applied to the run
// configuration before the function executes.
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	if err := applyGlobalFlags(cmd, ctx); err != nil {
		return err
	}
	return fn(ctx)
}

func applyGlobalFlags(cmd *cobra.Command, ctx *runtime.Context) error {
	flags := cmd.Flags()
	if yes, err := flags.GetBool("yes"); err == nil && yes {
		ctx.Config.Yes = true
	}
	if ascii, err := flags.GetBool("ascii"); err == nil && ascii {
		ctx.Config.ASCII = true
	}
	if mode, err := flags.GetString("squash-merge-detection"); err == nil && mode != "" {
		if err := config.ValidateSquashMergeDetection(mode); err != nil {
			return err
		}
		return ctx.SetSquashMergeDetection(mode)
	}
	return nil
}
