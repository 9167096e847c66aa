package helpers

import (
	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/git"
	"trellis.dev/trellis/internal/layout"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction and
// RegisterFlagCompletionFunc that returns all local branch names.
func CompleteBranches(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	facade, err := openFacade()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := facade.LocalBranches()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// CompleteManagedBranches returns the branch names listed in the layout file.
func CompleteManagedBranches(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	facade, err := openFacade()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	lay, err := layout.ReadFile(config.LayoutPath(facade.Repo().GitDir()))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lay.Names(), cobra.ShellCompDirectiveNoFileComp
}

func openFacade() (*git.Facade, error) {
	repoRoot, err := git.FindRepoRoot()
	if err != nil {
		return nil, err
	}
	return git.NewFacade(repoRoot)
}
