package actions

import (
	"context"
	"fmt"

	"trellis.dev/trellis/internal/engine"
)

// Branch list categories
const (
	ListManaged   = "managed"
	ListUnmanaged = "unmanaged"
	ListSlidable  = "slidable"
)

// ListBranches returns the branch names of a category: managed branches in
// pre-order, unmanaged local branches, or managed branches whose parent edge
// is grey (slide-out candidates)
func ListBranches(env *Env, category string) ([]string, error) {
	switch category {
	case ListManaged:
		return env.Layout.Names(), nil

	case ListUnmanaged:
		return env.unmanagedBranches()

	case ListSlidable:
		var result []string
		for _, name := range env.Layout.Names() {
			edge, err := env.Engine.ClassifyParentEdge(name)
			if err != nil {
				return nil, err
			}
			if edge == engine.EdgeGrey {
				result = append(result, name)
			}
		}
		return result, nil
	}

	return nil, fmt.Errorf("invalid category %q, expected one of managed, unmanaged, slidable", category)
}

// List prints the branches of a category one per line
func List(env *Env, category string) error {
	branches, err := ListBranches(env, category)
	if err != nil {
		return err
	}
	for _, name := range branches {
		env.Splog.Info("%s", name)
	}
	return nil
}

// DeleteUnmanaged offers deletion of every local branch absent from the
// layout, except the current one. Each deletion is confirmed per branch
// unless --yes.
func DeleteUnmanaged(ctx context.Context, env *Env) error {
	unmanaged, err := env.unmanagedBranches()
	if err != nil {
		return err
	}

	current, _ := env.Git.CurrentBranch()

	deleted := 0
	for _, name := range unmanaged {
		if name == current {
			continue
		}
		ok, err := env.confirm(fmt.Sprintf("Delete branch %s?", name), false)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := env.Git.DeleteBranch(ctx, name, true); err != nil {
			return err
		}
		env.Splog.Info("Deleted branch %s.", name)
		deleted++
	}

	if deleted == 0 {
		env.Splog.Info("No unmanaged branches deleted.")
	} else {
		env.Engine.InvalidateCaches()
	}
	return nil
}

func (e *Env) unmanagedBranches() ([]string, error) {
	locals, err := e.Git.LocalBranches()
	if err != nil {
		return nil, err
	}
	var result []string
	for _, name := range locals {
		if !e.Layout.Has(name) {
			result = append(result, name)
		}
	}
	return result, nil
}
