// Package cli wires every command of the trellis binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trellis",
		Short: "Trellis manages a forest of dependent git branches",
		Long: `Trellis manages a forest of dependent git branches kept in a plain-text
layout file under .git/trellis. It shows how far each branch has drifted from
its parent and its remote, and walks the forest rebasing, pushing and sliding
out branches one confirmed step at a time.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("yes", "y", false, "Answer yes to every confirmation.")
	flags.Bool("ascii", false, "Render trees without colors.")
	flags.String("squash-merge-detection", "", "Squash merge detection mode: none, simple or exact.")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newTraverseCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newSlideOutCmd())
	rootCmd.AddCommand(newAdvanceCmd())
	rootCmd.AddCommand(newForkPointCmd())
	rootCmd.AddCommand(newAnnoCmd())
	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newGoCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteUnmanagedCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the trellis version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("trellis %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
