package actions

import (
	"context"
	"fmt"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/engine"
	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/tui"
)

// Outcome is the result of a traversal: no panics or exceptions steer the
// walk, a step reports what should happen next.
type Outcome int

const (
	// OutcomeCompleted means the walk visited every remaining branch
	OutcomeCompleted Outcome = iota
	// OutcomeCancelled means the user quit (q/yq); the checkout position is
	// preserved
	OutcomeCancelled
	// OutcomeFailed means a git operation failed and the walk aborted with
	// the repository left as git left it
	OutcomeFailed
)

// TraverseOptions contains options for the traverse command
type TraverseOptions struct {
	// StartFrom is here, root or first-root
	StartFrom string
	// ReturnTo is here, nearest-remaining or stay
	ReturnTo string
	// Fetch fetches and prunes every remote before walking
	Fetch bool
	// Merge syncs branches with their parents by merge instead of rebase
	Merge bool
}

// Traverse walks the forest in pre-order from the entry point and, per
// branch, offers the action its sync state calls for: slide-out for merged
// branches, rebase (or merge) for out-of-sync ones, then push, pull or reset
// against the remote. Each offer is confirmed with y/N/q/yq unless --yes.
func Traverse(ctx context.Context, env *Env, opts TraverseOptions) (Outcome, error) {
	if opts.StartFrom == "" {
		opts.StartFrom = config.StartFromHere
	}
	if opts.ReturnTo == "" {
		opts.ReturnTo = config.ReturnToStay
	}

	if opts.Fetch {
		remotes, err := env.Git.Remotes()
		if err != nil {
			return OutcomeFailed, err
		}
		for _, remote := range remotes {
			if err := env.Git.Fetch(ctx, remote); err != nil {
				return OutcomeFailed, err
			}
		}
		env.Engine.InvalidateCaches()
	}

	initial, err := env.currentBranch()
	if err != nil && opts.StartFrom != config.StartFromFirstRoot {
		return OutcomeFailed, err
	}
	// The ancestor path is captured before the walk so return-to can find
	// the nearest surviving ancestor even after slide-outs.
	initialPath := ancestorPath(env, initial)

	entry, err := entryBranch(env, initial, opts.StartFrom)
	if err != nil {
		return OutcomeFailed, err
	}

	processed := make(map[string]bool)
	for _, name := range env.Layout.Names() {
		if name == entry {
			break
		}
		processed[name] = true
	}

	merge := opts.Merge || env.Config.TraverseMerge

	for {
		branch := nextUnprocessed(env, processed)
		if branch == "" {
			break
		}
		processed[branch] = true

		outcome, err := env.traverseStep(ctx, branch, merge)
		if err != nil {
			return OutcomeFailed, err
		}
		if outcome == OutcomeCancelled {
			return OutcomeCancelled, nil
		}
	}

	if err := env.returnTo(ctx, initial, initialPath, opts.ReturnTo); err != nil {
		return OutcomeFailed, err
	}

	final, err := env.Git.CurrentBranch()
	if err != nil {
		final = initial
	}
	env.Splog.Info("No successor of %s needs to be slid out or synced with upstream branch or remote; nothing left to update.", final)
	return OutcomeCompleted, nil
}

func entryBranch(env *Env, initial, startFrom string) (string, error) {
	switch startFrom {
	case config.StartFromFirstRoot:
		if len(env.Layout.Roots) == 0 {
			return "", fmt.Errorf("no branches listed in %s", env.Config.LayoutPath)
		}
		return env.Layout.Roots[0], nil
	case config.StartFromRoot:
		if !env.Layout.Has(initial) {
			return "", trelliserrors.NewNotManagedError(initial)
		}
		return env.Layout.RootOf(initial), nil
	default:
		if !env.Layout.Has(initial) {
			return "", trelliserrors.NewNotManagedError(initial)
		}
		return initial, nil
	}
}

// nextUnprocessed recomputes the pre-order after every step, so branches
// reattached by a slide-out are still visited
func nextUnprocessed(env *Env, processed map[string]bool) string {
	for _, name := range env.Layout.Names() {
		if !processed[name] {
			return name
		}
	}
	return ""
}

func ancestorPath(env *Env, branch string) []string {
	var path []string
	for name := env.Layout.Parent(branch); name != ""; name = env.Layout.Parent(name) {
		path = append(path, name)
	}
	return path
}

// traverseStep handles a single branch: slide-out, parent sync, remote sync
func (e *Env) traverseStep(ctx context.Context, branch string, merge bool) (Outcome, error) {
	node := e.Layout.Get(branch)
	qualifiers := node.Qualifiers()

	if node.Parent != "" {
		edge, err := e.Engine.ClassifyParentEdge(branch)
		if err != nil {
			return OutcomeFailed, err
		}

		switch {
		case edge == engine.EdgeGrey && !qualifiers.NoSlideOut:
			answer, err := e.ask(fmt.Sprintf("Branch %s is merged into %s. Slide %s out of the tree of branch dependencies?", branch, node.Parent, branch))
			if err != nil {
				return OutcomeFailed, err
			}
			if answer == tui.AnswerQuit {
				return OutcomeCancelled, nil
			}
			if answer == tui.AnswerYes || answer == tui.AnswerYesQuit {
				if err := e.slideOutMerged(branch); err != nil {
					return OutcomeFailed, err
				}
				if answer == tui.AnswerYesQuit {
					return OutcomeCancelled, nil
				}
				// The slid-out branch has no remote business left; its
				// children are the next unprocessed branches.
				return OutcomeCompleted, nil
			}

		case (edge == engine.EdgeRed || edge == engine.EdgeYellow) && !qualifiers.NoRebase:
			verb := fmt.Sprintf("Rebase %s onto %s?", branch, node.Parent)
			if merge {
				verb = fmt.Sprintf("Merge %s into %s?", node.Parent, branch)
			}
			answer, err := e.ask(verb)
			if err != nil {
				return OutcomeFailed, err
			}
			if answer == tui.AnswerQuit {
				return OutcomeCancelled, nil
			}
			if answer == tui.AnswerYes || answer == tui.AnswerYesQuit {
				if err := e.Git.Checkout(ctx, branch); err != nil {
					return OutcomeFailed, err
				}
				if merge {
					err = e.mergeParentInto(ctx, branch, node.Parent)
				} else {
					err = e.rebaseOntoParent(ctx, branch, node.Parent, "")
				}
				if err != nil {
					return OutcomeFailed, err
				}
				if answer == tui.AnswerYesQuit {
					return OutcomeCancelled, nil
				}
			}
		}
	}

	if e.Config.TraversePush && !qualifiers.NoPush {
		return e.traverseRemoteStep(ctx, branch)
	}
	return OutcomeCompleted, nil
}

// slideOutMerged removes a single merged branch from the layout, reattaching
// its children in place
func (e *Env) slideOutMerged(branch string) error {
	if err := e.Layout.Remove(branch); err != nil {
		return err
	}
	if err := e.Layout.CheckInvariants(); err != nil {
		return err
	}
	if err := e.SaveLayout(); err != nil {
		return err
	}
	e.Engine.InvalidateCaches()
	e.Splog.Info("Slid out %s.", branch)
	return nil
}

func (e *Env) traverseRemoteStep(ctx context.Context, branch string) (Outcome, error) {
	state, err := e.Engine.ClassifyRemote(branch)
	if err != nil {
		return OutcomeFailed, err
	}

	var prompt string
	var action func() error

	switch state.Status {
	case engine.RemoteInSync:
		return OutcomeCompleted, nil

	case engine.RemoteUntracked:
		remote, ok := e.defaultRemote()
		if !ok {
			return OutcomeCompleted, nil
		}
		prompt = fmt.Sprintf("Push untracked branch %s to %s?", branch, remote)
		action = func() error {
			return e.Git.Push(ctx, remote, branch, false)
		}

	case engine.RemoteAhead:
		prompt = fmt.Sprintf("Push %s to %s?", branch, state.Remote)
		action = func() error {
			return e.Git.Push(ctx, state.Remote, branch, false)
		}

	case engine.RemoteDivergedNewer:
		prompt = fmt.Sprintf("Branch %s diverged from (and is newer than) %s. Push %s with force-with-lease to %s?", branch, state.Counterpart, branch, state.Remote)
		action = func() error {
			return e.Git.Push(ctx, state.Remote, branch, true)
		}

	case engine.RemoteBehind:
		prompt = fmt.Sprintf("Branch %s is behind %s. Fast-forward %s to match %s?", branch, state.Counterpart, branch, state.Counterpart)
		action = func() error {
			if err := e.Git.Checkout(ctx, branch); err != nil {
				return err
			}
			return e.Git.PullFastForward(ctx, branch, state.Counterpart)
		}

	case engine.RemoteDivergedOlder:
		prompt = fmt.Sprintf("Branch %s diverged from (and is older than) %s. Reset %s to %s, keeping local changes?", branch, state.Counterpart, branch, state.Counterpart)
		action = func() error {
			if err := e.Git.Checkout(ctx, branch); err != nil {
				return err
			}
			return e.Git.ResetKeep(ctx, branch, state.Counterpart)
		}
	}

	answer, err := e.ask(prompt)
	if err != nil {
		return OutcomeFailed, err
	}
	switch answer {
	case tui.AnswerQuit:
		return OutcomeCancelled, nil
	case tui.AnswerYes, tui.AnswerYesQuit:
		if err := action(); err != nil {
			return OutcomeFailed, err
		}
		e.Engine.InvalidateCaches()
		if answer == tui.AnswerYesQuit {
			return OutcomeCancelled, nil
		}
	}
	return OutcomeCompleted, nil
}

// returnTo decides the final checkout after a completed walk
func (e *Env) returnTo(ctx context.Context, initial string, initialPath []string, policy string) error {
	switch policy {
	case config.ReturnToHere:
		if initial != "" && e.Git.BranchExists(initial) {
			return e.Git.Checkout(ctx, initial)
		}
	case config.ReturnToNearestRemaining:
		if initial != "" && e.Layout.Has(initial) && e.Git.BranchExists(initial) {
			return e.Git.Checkout(ctx, initial)
		}
		for _, ancestor := range initialPath {
			if e.Layout.Has(ancestor) && e.Git.BranchExists(ancestor) {
				return e.Git.Checkout(ctx, ancestor)
			}
		}
	}
	return nil
}
