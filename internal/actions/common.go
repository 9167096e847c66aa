// Package actions implements the operations behind every command: the
// traversal state machine, tree mutations (add, slide-out, advance), status
// rendering, discovery, annotations, navigation and branch listing.
package actions

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/git"
	"trellis.dev/trellis/internal/layout"
	"trellis.dev/trellis/internal/runtime"
	"trellis.dev/trellis/internal/tui"
)

// GitService is the full git capability surface an action may use
type GitService interface {
	git.Querier
	git.Runner
}

// Env bundles what every action needs. Prompt and persistence hooks are
// injectable so actions run against the in-memory fake in tests.
type Env struct {
	Layout *layout.Layout
	Engine *engine.Engine
	Git    GitService
	Config *config.RunConfig
	Splog  *tui.Splog

	// SaveLayout persists the layout file
	SaveLayout func() error
	// SaveLayoutWithBackup persists the layout, backing up the previous file
	SaveLayoutWithBackup func() error

	// ConfirmFunc asks a yes/no question
	ConfirmFunc func(prompt string, defaultValue bool) (bool, error)
	// AskFunc collects a y/N/q/yq traversal answer
	AskFunc func(prompt string) (tui.TraverseAnswer, error)
	// SelectBranchFunc picks one branch out of several
	SelectBranchFunc func(message string, options []string) (string, error)
}

// NewEnv builds the default action environment from a runtime context
func NewEnv(ctx *runtime.Context) *Env {
	return &Env{
		Layout:               ctx.Layout,
		Engine:               ctx.Engine,
		Git:                  ctx.Git,
		Config:               ctx.Config,
		Splog:                ctx.Splog,
		SaveLayout:           ctx.SaveLayout,
		SaveLayoutWithBackup: ctx.SaveLayoutWithBackup,
		ConfirmFunc:          surveyConfirm,
		AskFunc:              tui.PromptTraverseStep,
		SelectBranchFunc:     promptSelectBranch,
	}
}

func surveyConfirm(prompt string, defaultValue bool) (bool, error) {
	answer := defaultValue
	err := survey.AskOne(&survey.Confirm{Message: prompt, Default: defaultValue}, &answer)
	if err != nil {
		return false, err
	}
	return answer, nil
}

func promptSelectBranch(message string, options []string) (string, error) {
	selectOptions := make([]tui.SelectOption, len(options))
	for i, option := range options {
		selectOptions[i] = tui.SelectOption{Label: option, Value: option}
	}
	return tui.PromptSelect(message, selectOptions, 0)
}

// confirm applies the --yes and interactivity policy before prompting
func (e *Env) confirm(prompt string, defaultValue bool) (bool, error) {
	if e.Config.Yes {
		return true, nil
	}
	if !e.Config.Interactive {
		return false, fmt.Errorf("refusing to prompt in non-interactive mode; pass --yes to confirm: %s", prompt)
	}
	return e.ConfirmFunc(prompt, defaultValue)
}

// ask applies the --yes policy before collecting a traversal answer
func (e *Env) ask(prompt string) (tui.TraverseAnswer, error) {
	if e.Config.Yes {
		return tui.AnswerYes, nil
	}
	if !e.Config.Interactive {
		return tui.AnswerNo, fmt.Errorf("refusing to prompt in non-interactive mode; pass --yes: %s", prompt)
	}
	return e.AskFunc(prompt)
}

// currentBranch returns the checked-out branch or ErrNotOnBranch
func (e *Env) currentBranch() (string, error) {
	branch, err := e.Git.CurrentBranch()
	if err != nil {
		return "", trelliserrors.ErrNotOnBranch
	}
	return branch, nil
}

// requireManaged resolves branch (or the current branch when empty) and
// checks it is listed in the layout
func (e *Env) requireManaged(branch string) (string, error) {
	var err error
	if branch == "" {
		branch, err = e.currentBranch()
		if err != nil {
			return "", err
		}
	}
	if !e.Layout.Has(branch) {
		return "", trelliserrors.NewNotManagedError(branch)
	}
	return branch, nil
}

// remoteMarker renders the remote status of a branch for tree output
func remoteMarker(state engine.RemoteState) string {
	switch state.Status {
	case engine.RemoteUntracked:
		return "untracked"
	case engine.RemoteAhead:
		return "ahead of " + state.Remote
	case engine.RemoteBehind:
		return "behind " + state.Remote
	case engine.RemoteDivergedNewer:
		return "diverged from " + state.Remote
	case engine.RemoteDivergedOlder:
		return "diverged from & older than " + state.Remote
	}
	return ""
}

// defaultRemote picks the remote new branches are pushed to
func (e *Env) defaultRemote() (string, bool) {
	remotes, err := e.Git.Remotes()
	if err != nil || len(remotes) == 0 {
		return "", false
	}
	for _, remote := range remotes {
		if remote == "origin" {
			return remote, true
		}
	}
	return remotes[0], true
}
