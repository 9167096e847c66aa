package actions

import (
	"context"
	"fmt"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

// Navigation directions accepted by show and go
const (
	DirectionUp      = "up"
	DirectionDown    = "down"
	DirectionFirst   = "first"
	DirectionLast    = "last"
	DirectionNext    = "next"
	DirectionPrev    = "prev"
	DirectionRoot    = "root"
	DirectionCurrent = "current"
)

// ValidateDirection checks a navigation direction name
func ValidateDirection(direction string) error {
	switch direction {
	case DirectionUp, DirectionDown, DirectionFirst, DirectionLast,
		DirectionNext, DirectionPrev, DirectionRoot, DirectionCurrent:
		return nil
	}
	return fmt.Errorf("invalid direction %q, expected one of up, down, first, last, next, prev, root, current", direction)
}

// ResolveDirection resolves a direction relative to a branch (the current
// one when from is empty). next and prev follow the forest's flattened
// pre-order; first and last are the first and last leaf of the branch's root
// tree.
func ResolveDirection(env *Env, from, direction string) (string, error) {
	branch, err := env.requireManaged(from)
	if err != nil {
		return "", err
	}

	switch direction {
	case DirectionCurrent:
		return branch, nil

	case DirectionUp:
		parent := env.Layout.Parent(branch)
		if parent == "" {
			return "", fmt.Errorf("branch %s is a root, there is nothing above it", branch)
		}
		return parent, nil

	case DirectionDown:
		children := env.Layout.Children(branch)
		switch len(children) {
		case 0:
			return "", fmt.Errorf("branch %s has no children", branch)
		case 1:
			return children[0], nil
		default:
			if !env.Config.Interactive {
				return "", fmt.Errorf("branch %s has %d children; pick one interactively", branch, len(children))
			}
			return env.SelectBranchFunc(fmt.Sprintf("Which child of %s?", branch), children)
		}

	case DirectionFirst:
		return env.Layout.FirstInRootTree(branch), nil

	case DirectionLast:
		return env.Layout.LastInRootTree(branch), nil

	case DirectionNext:
		next := env.Layout.NextBranch(branch)
		if next == "" {
			return "", fmt.Errorf("branch %s is the last branch", branch)
		}
		return next, nil

	case DirectionPrev:
		prev := env.Layout.PrevBranch(branch)
		if prev == "" {
			return "", fmt.Errorf("branch %s is the first branch", branch)
		}
		return prev, nil

	case DirectionRoot:
		return env.Layout.RootOf(branch), nil
	}

	return "", fmt.Errorf("invalid direction %q", direction)
}

// Show prints the branch a direction resolves to
func Show(env *Env, from, direction string) error {
	target, err := ResolveDirection(env, from, direction)
	if err != nil {
		return err
	}
	env.Splog.Info("%s", target)
	return nil
}

// Go checks out the branch a direction resolves to from the current branch
func Go(ctx context.Context, env *Env, direction string) error {
	target, err := ResolveDirection(env, "", direction)
	if err != nil {
		return err
	}
	if !env.Git.BranchExists(target) {
		return trelliserrors.NewBranchNotFoundError(target)
	}
	if err := env.Git.Checkout(ctx, target); err != nil {
		return err
	}
	env.Engine.InvalidateCaches()
	return nil
}
