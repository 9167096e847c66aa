package actions

import (
	"context"
	"fmt"

	"trellis.dev/trellis/internal/engine"
)

// AdvanceOptions contains options for the advance command
type AdvanceOptions struct {
	// Push pushes the advanced branch without asking
	Push bool
}

// Advance fast-forwards the current branch to the tip of one of its
// green-edge children, then slides that child out of the tree so its own
// children move up. Several eligible children prompt for a choice.
func Advance(ctx context.Context, env *Env, opts AdvanceOptions) error {
	current, err := env.requireManaged("")
	if err != nil {
		return err
	}

	var eligible []string
	for _, child := range env.Layout.Children(current) {
		edge, err := env.Engine.ClassifyParentEdge(child)
		if err != nil {
			return err
		}
		if edge == engine.EdgeGreen {
			eligible = append(eligible, child)
		}
	}

	var target string
	switch len(eligible) {
	case 0:
		return fmt.Errorf("branch %s has no child in sync with it to advance to", current)
	case 1:
		target = eligible[0]
	default:
		if !env.Config.Interactive {
			return fmt.Errorf("branch %s has %d children it could advance to; pick one interactively", current, len(eligible))
		}
		target, err = env.SelectBranchFunc(fmt.Sprintf("Advance %s to which child?", current), eligible)
		if err != nil {
			return err
		}
	}

	if err := env.Git.FastForward(ctx, current, target); err != nil {
		return err
	}
	env.Engine.InvalidateCaches()
	env.Splog.Info("Fast-forwarded %s to the tip of %s.", current, target)

	if err := env.Layout.Remove(target); err != nil {
		return err
	}
	if err := env.Layout.CheckInvariants(); err != nil {
		return err
	}
	if err := env.SaveLayout(); err != nil {
		return err
	}
	env.Engine.InvalidateCaches()
	env.Splog.Info("Slid out %s.", target)

	return env.maybePushAdvanced(ctx, current, opts.Push)
}

func (e *Env) maybePushAdvanced(ctx context.Context, branch string, forcePush bool) error {
	state, err := e.Engine.ClassifyRemote(branch)
	if err != nil {
		return err
	}
	if state.Status == engine.RemoteUntracked || state.Status == engine.RemoteInSync {
		return nil
	}

	push := forcePush
	if !push {
		if !e.Config.Interactive && !e.Config.Yes {
			return nil
		}
		push, err = e.confirm(fmt.Sprintf("Push %s to %s?", branch, state.Remote), true)
		if err != nil {
			return err
		}
	}
	if !push {
		return nil
	}

	if err := e.Git.Push(ctx, state.Remote, branch, false); err != nil {
		return err
	}
	e.Engine.InvalidateCaches()
	e.Splog.Info("Pushed %s to %s.", branch, state.Remote)
	return nil
}
