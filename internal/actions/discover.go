package actions

import (
	"fmt"

	"trellis.dev/trellis/internal/layout"
	"trellis.dev/trellis/internal/utils"
)

// rootCandidates become roots of a discovered layout when they exist locally
var rootCandidates = []string{"main", "master", "develop"}

// Discover rebuilds the layout from the local branches: main/master (and
// develop) become roots, every other branch attaches to the local branch
// whose tip is its nearest ancestor, and branches with no ancestor become
// extra roots. The result is shown and confirmed before the existing file is
// backed up and overwritten.
func Discover(env *Env) error {
	locals, err := env.Git.LocalBranches()
	if err != nil {
		return err
	}
	if len(locals) == 0 {
		return fmt.Errorf("no local branches to discover")
	}

	isRoot := func(name string) bool {
		return utils.ContainsString(rootCandidates, name)
	}

	// Parent pointers are computed globally first: the choice must not
	// depend on the order branches happen to attach in.
	parents := make(map[string]string)
	for _, name := range locals {
		if isRoot(name) {
			continue
		}
		parents[name] = env.discoverParent(locals, name)
	}

	discovered := layout.New()
	for _, name := range locals {
		if isRoot(name) {
			if err := discovered.AddRoot(name); err != nil {
				return err
			}
		}
	}
	for _, name := range locals {
		if !isRoot(name) && parents[name] == "" {
			if err := discovered.AddRoot(name); err != nil {
				return err
			}
		}
	}
	// Attach the rest in passes; each pass makes children of freshly added
	// branches insertable
	remaining := len(parents)
	for remaining > 0 {
		progress := false
		for _, name := range locals {
			parent := parents[name]
			if parent == "" || discovered.Has(name) || !discovered.Has(parent) {
				continue
			}
			if err := discovered.AddUnder(name, parent); err != nil {
				return err
			}
			remaining--
			progress = true
		}
		if !progress {
			break
		}
	}
	// Anything still unattached has an unreachable parent; surface it as a
	// root rather than dropping it
	for _, name := range locals {
		if !discovered.Has(name) {
			if err := discovered.AddRoot(name); err != nil {
				return err
			}
		}
	}
	if err := discovered.CheckInvariants(); err != nil {
		return err
	}

	env.replaceLayout(discovered)
	env.Splog.Info("Discovered tree of branch dependencies:")
	env.Splog.Newline()
	out, err := BuildStatus(env, StatusOptions{})
	if err != nil {
		return err
	}
	env.Splog.Page(out)
	env.Splog.Newline()

	ok, err := env.confirm(fmt.Sprintf("Save the discovered tree to %s? The existing file is backed up to %s", env.Config.LayoutPath, layout.BackupPath(env.Config.LayoutPath)), true)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	return env.SaveLayoutWithBackup()
}

// discoverParent picks the local branch whose tip is an ancestor of name's
// tip with the fewest commits in between; among equally near candidates a
// deeper tip wins. A fresh branch (tip equal to another's) still attaches,
// with the names ordered to keep the relation acyclic.
func (e *Env) discoverParent(locals []string, name string) string {
	best := ""
	bestDistance := -1

	for _, candidate := range locals {
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
		// Zero distance means equal tips; only the name that sorts first may
		// become the parent, otherwise both would claim each other
		if distance == 0 && !utils.ContainsString(rootCandidates, candidate) && candidate > name {
			continue
		}

		if bestDistance == -1 || distance < bestDistance {
			best = candidate
			bestDistance = distance
			continue
		}
		if distance == bestDistance {
			if deeper, _ := e.Git.IsAncestor(best, candidate); deeper {
				best = candidate
			}
		}
	}

	return best
}

// replaceLayout swaps the layout contents in place, so the engine and any
// other holder of the pointer see the new forest
func (e *Env) replaceLayout(newLayout *layout.Layout) {
	*e.Layout = *newLayout
	e.Engine.InvalidateCaches()
}
