package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trellis.dev/trellis/internal/actions"
	"trellis.dev/trellis/internal/cli/helpers"
	"trellis.dev/trellis/internal/github"
	"trellis.dev/trellis/internal/runtime"
	"trellis.dev/trellis/internal/tui"
)

// newAnnoCmd creates the anno command
func newAnnoCmd() *cobra.Command {
	var (
		branch     string
		syncGitHub bool
		edit       bool
		clearFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "anno [words...]",
		Short: "Print, set or clear a branch's annotation",
		Long: `Print, set or clear the annotation shown next to a branch in status
output. Passing --clear (or an empty string '') erases the annotation.

The qualifier tokens rebase=no, push=no and slide-out=no inside an annotation
suppress the matching traverse actions for the branch.

With --sync-github-prs every branch heading an open GitHub pull request is
annotated with its PR number. The GitHub token is taken from the GITHUB_TOKEN
environment variable or from 'gh auth token'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				env := actions.NewEnv(ctx)

				if syncGitHub {
					remoteURL, err := ctx.Git.Repo().RemoteURL("origin")
					if err != nil {
						return err
					}
					client, err := github.NewClient(cmd.Context(), remoteURL)
					if err != nil {
						return err
					}
					return actions.SyncGitHubPRs(cmd.Context(), env, client)
				}

				if edit {
					return editAnnotation(env, ctx, branch)
				}

				clear := clearFlag || (len(args) == 1 && args[0] == "")
				if clearFlag && len(args) > 0 {
					return fmt.Errorf("--clear cannot be combined with annotation words")
				}
				words := args
				if clear {
					words = nil
				}
				return actions.Annotate(env, actions.AnnoOptions{
					Branch: branch,
					Words:  words,
					Clear:  clear,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Annotate this branch instead of the current one.")
	cmd.Flags().BoolVarP(&syncGitHub, "sync-github-prs", "H", false, "Annotate branches with their open GitHub pull requests.")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Edit the annotation interactively.")
	cmd.Flags().BoolVar(&clearFlag, "clear", false, "Erase the annotation.")
	_ = cmd.RegisterFlagCompletionFunc("branch", helpers.CompleteManagedBranches)

	return cmd
}

// editAnnotation opens the current annotation in a text input prompt
func editAnnotation(env *actions.Env, ctx *runtime.Context, branch string) error {
	if branch == "" {
		current, err := ctx.Git.CurrentBranch()
		if err != nil {
			return err
		}
		branch = current
	}
	node := ctx.Layout.Get(branch)
	if node == nil {
		return fmt.Errorf("branch %s is not managed", branch)
	}

	text, err := tui.PromptTextInput(fmt.Sprintf("Annotation for %s", branch), node.Annotation)
	if err != nil {
		return err
	}
	if text == "" {
		return actions.Annotate(env, actions.AnnoOptions{Branch: branch, Clear: true})
	}
	return actions.Annotate(env, actions.AnnoOptions{Branch: branch, Words: []string{text}})
}
