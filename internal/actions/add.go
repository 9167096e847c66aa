package actions

import (
	"context"
	"fmt"

	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/layout"
)

// AddOptions contains options for the add command
type AddOptions struct {
	// Name is the branch to add; empty means the current branch
	Name string
	// Onto names the parent explicitly
	Onto string
	// AsRoot appends the branch as a new root
	AsRoot bool
}

// Add inserts a branch into the layout. A branch that does not exist locally
// is created at HEAD and checked out after confirmation. Without --onto or
// --as-root the parent is inferred from the commit graph and confirmed.
func Add(ctx context.Context, env *Env, opts AddOptions) error {
	if opts.AsRoot && opts.Onto != "" {
		return fmt.Errorf("--onto and --as-root are mutually exclusive")
	}

	name := opts.Name
	if name == "" {
		var err error
		name, err = env.currentBranch()
		if err != nil {
			return err
		}
	}
	if !layout.ValidBranchName(name) {
		return fmt.Errorf("invalid branch name %q", name)
	}
	if env.Layout.Has(name) {
		return fmt.Errorf("branch %s is already managed", name)
	}

	if !env.Git.BranchExists(name) {
		ok, err := env.confirm(fmt.Sprintf("Branch %s does not exist locally. Create it at the current HEAD?", name), true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := env.Git.CreateAndCheckoutBranch(ctx, name); err != nil {
			return err
		}
		env.Engine.InvalidateCaches()
	}

	switch {
	case opts.AsRoot:
		if err := env.Layout.AddRoot(name); err != nil {
			return err
		}

	case opts.Onto != "":
		if !env.Layout.Has(opts.Onto) {
			return trelliserrors.NewNotManagedError(opts.Onto)
		}
		if err := env.Layout.AddUnder(name, opts.Onto); err != nil {
			return err
		}

	default:
		parent, err := env.inferParent(name)
		if err != nil {
			return err
		}
		if parent == "" {
			ok, err := env.confirm(fmt.Sprintf("No managed branch contains the history of %s. Add it as a new root?", name), true)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := env.Layout.AddRoot(name); err != nil {
				return err
			}
		} else {
			ok, err := env.confirm(fmt.Sprintf("Add %s onto %s?", name, parent), true)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := env.Layout.AddUnder(name, parent); err != nil {
				return err
			}
		}
	}

	if err := env.Layout.CheckInvariants(); err != nil {
		return err
	}
	if err := env.SaveLayout(); err != nil {
		return err
	}
	env.Engine.InvalidateCaches()
	env.Splog.Info("Added branch %s.", name)
	return nil
}

// inferParent picks the managed branch whose tip is an ancestor of the new
// branch's tip with the fewest commits in between; deeper branches win ties,
// so a fresh branch attaches to the bottom of its stack.
func (e *Env) inferParent(name string) (string, error) {
	bestParent := ""
	bestDistance := -1
	bestDepth := -1

	for _, candidate := range e.Layout.Names() {
		if candidate == name {
			continue
		}
		contained, err := e.Git.IsAncestor(candidate, name)
		if err != nil || !contained {
			continue
		}
		distance, _, err := e.Git.AheadBehindCounts(name, candidate)
		if err != nil {
			continue
		}
		depth := e.Layout.Depth(candidate)
		if bestDistance == -1 || distance < bestDistance ||
			(distance == bestDistance && depth > bestDepth) {
			bestParent = candidate
			bestDistance = distance
			bestDepth = depth
		}
	}

	return bestParent, nil
}
