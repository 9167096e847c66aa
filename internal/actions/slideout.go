package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/git"
	"trellis.dev/trellis/internal/utils"
)

// SlideOutOptions contains options for the slide-out command
type SlideOutOptions struct {
	// Branches is the parent-to-child chain to remove; empty means the
	// current branch
	Branches []string
	// Merge re-syncs the reattached children by merge instead of rebase
	Merge bool
	// Delete also deletes the local branches after the slide-out
	Delete bool
	// DownForkPoint overrides the rebase fork point of the reattached child
	DownForkPoint string
}

// SlideOut removes a contiguous chain of branches from the layout. The last
// branch's children reattach to the chain's original parent, keeping their
// position, and each is rebased (or merged) onto it. Chain violations are
// rejected before any git command runs.
func SlideOut(ctx context.Context, env *Env, opts SlideOutOptions) error {
	branches := opts.Branches
	if len(branches) == 0 {
		current, err := env.currentBranch()
		if err != nil {
			return err
		}
		branches = []string{current}
	}

	// Validate the whole chain up front
	for i, name := range branches {
		node := env.Layout.Get(name)
		if node == nil {
			return trelliserrors.NewNotManagedError(name)
		}
		if node.Parent == "" {
			return trelliserrors.NewInvariantViolationError("cannot slide out root branch %s", name)
		}
		if i > 0 && node.Parent != branches[i-1] {
			return trelliserrors.NewInvariantViolationError("%s is not a child of %s; slide-out branches must form a chain", name, branches[i-1])
		}
		if i < len(branches)-1 && len(node.Children) != 1 {
			return trelliserrors.NewInvariantViolationError("%s has %d children, expected exactly one inside the chain", name, len(node.Children))
		}
	}

	first := env.Layout.Get(branches[0])
	last := env.Layout.Get(branches[len(branches)-1])
	newParent := first.Parent
	children := append([]string(nil), last.Children...)

	if opts.DownForkPoint != "" {
		if len(children) != 1 {
			return trelliserrors.NewInvariantViolationError("--down-fork-point requires the slid-out chain to have exactly one child, found %d", len(children))
		}
		if _, err := env.Git.Revision(opts.DownForkPoint); err != nil {
			return err
		}
	}

	for _, name := range branches {
		if err := env.Layout.Remove(name); err != nil {
			return err
		}
	}
	if err := env.Layout.CheckInvariants(); err != nil {
		return err
	}
	if err := env.SaveLayout(); err != nil {
		return err
	}
	env.Engine.InvalidateCaches()
	env.Splog.Info("Slid out %s.", strings.Join(branches, ", "))

	for _, child := range children {
		if opts.Merge {
			if err := env.mergeParentInto(ctx, child, newParent); err != nil {
				return err
			}
		} else {
			if err := env.rebaseOntoParent(ctx, child, newParent, opts.DownForkPoint); err != nil {
				return err
			}
		}
	}

	if opts.Delete {
		if current, err := env.Git.CurrentBranch(); err == nil && utils.ContainsString(branches, current) {
			if err := env.Git.Checkout(ctx, newParent); err != nil {
				return err
			}
		}
		for _, name := range branches {
			if err := env.Git.DeleteBranch(ctx, name, true); err != nil {
				return err
			}
			env.Splog.Info("Deleted branch %s.", name)
		}
		env.Engine.InvalidateCaches()
	}

	return nil
}

// rebaseOntoParent rebases branch onto parent using the branch's effective
// fork point (or the given override). A missing fork point falls back to the
// merge base, which makes the rebase a no-op replay of the unique commits.
func (e *Env) rebaseOntoParent(ctx context.Context, branch, parent, forkPointOverride string) error {
	forkPoint := forkPointOverride
	if forkPoint == "" {
		fp, err := e.Engine.EffectiveForkPoint(branch)
		if err != nil {
			if !errors.Is(err, trelliserrors.ErrForkPointNotFound) {
				return err
			}
			fp, err = e.Git.MergeBase(parent, branch)
			if err != nil {
				return err
			}
		}
		forkPoint = fp
	}

	result, err := e.Git.Rebase(ctx, branch, parent, forkPoint)
	if err != nil {
		return err
	}
	e.Engine.InvalidateCaches()
	if result == git.RebaseConflict {
		return trelliserrors.NewRebaseConflictError(branch, "resolve the conflict, finish the rebase with git, then re-run the command")
	}
	e.Splog.Info("Rebased %s onto %s.", branch, parent)
	return nil
}

// mergeParentInto merges parent into branch
func (e *Env) mergeParentInto(ctx context.Context, branch, parent string) error {
	result, err := e.Git.Merge(ctx, branch, parent)
	if err != nil {
		return err
	}
	e.Engine.InvalidateCaches()
	if result == git.MergeConflict {
		return fmt.Errorf("merge of %s into %s hit a conflict; resolve it and commit, then re-run the command", parent, branch)
	}
	e.Splog.Info("Merged %s into %s.", parent, branch)
	return nil
}
