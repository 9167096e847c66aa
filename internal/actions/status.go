package actions

import (
	"errors"
	"fmt"

	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/tui"
)

// StatusOptions contains options for the status command
type StatusOptions struct {
	ListCommits bool
}

// Status renders the managed forest with edge colors and remote markers.
// It is a pure read: nothing is mutated, nothing is asked.
func Status(env *Env, opts StatusOptions) error {
	if len(env.Layout.Roots) == 0 {
		env.Splog.Info("No branches listed in %s; run 'trellis discover' or 'trellis add' first.", env.Config.LayoutPath)
		return nil
	}

	out, err := BuildStatus(env, opts)
	if err != nil {
		return err
	}
	env.Splog.Page(out)
	return nil
}

// BuildStatus classifies every managed branch and renders the forest
func BuildStatus(env *Env, opts StatusOptions) (string, error) {
	current, _ := env.Git.CurrentBranch()

	lines := make(map[string]tui.TreeLine, len(env.Layout.Branches))
	for _, name := range env.Layout.Names() {
		branch := env.Layout.Get(name)

		edge, err := env.Engine.ClassifyParentEdge(name)
		if err != nil {
			return "", err
		}

		line := tui.TreeLine{
			Edge:       edge,
			IsCurrent:  name == current,
			Annotation: branch.Annotation,
		}

		state, err := env.Engine.ClassifyRemote(name)
		if err != nil {
			return "", err
		}
		line.RemoteMarker = remoteMarker(state)

		if opts.ListCommits && branch.Parent != "" && edge != engine.EdgeGrey {
			commits, err := env.Engine.UniqueCommits(name)
			if err != nil {
				return "", err
			}
			for _, commit := range commits {
				line.Commits = append(line.Commits, commit.Subject)
			}
			if edge == engine.EdgeYellow {
				line.ForkPointHint = forkPointHint(env, name)
			}
		}

		lines[name] = line
	}

	renderOpts := tui.RenderOptions{
		ASCII:       env.Config.ASCII || !tui.SupportsColor(),
		ListCommits: opts.ListCommits,
	}
	return tui.RenderForest(env.Layout, lines, renderOpts), nil
}

// forkPointHint describes why a yellow edge's rebase range may surprise
func forkPointHint(env *Env, branch string) string {
	forkPoint, err := env.Engine.EffectiveForkPoint(branch)
	if err != nil {
		if errors.Is(err, trelliserrors.ErrForkPointNotFound) {
			return "fork point not inferable"
		}
		return ""
	}
	subject, err := env.Git.CommitSubject(forkPoint)
	if err != nil {
		return fmt.Sprintf("fork point %s is not the parent tip", forkPoint)
	}
	return fmt.Sprintf("fork point %s (%s) is not the parent tip", forkPoint, subject)
}
