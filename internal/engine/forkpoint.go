package engine

import (
	"fmt"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

// ForkPointOverrideKey returns the git config key persisting a manual
// fork-point override for a branch.
func ForkPointOverrideKey(branch string) string {
	return "trellis.overrideForkPoint." + branch + ".to"
}

// ForkPointOverride returns the persisted override commit for a branch, if set
func (e *Engine) ForkPointOverride(branch string) (string, bool) {
	value, err := e.git.ConfigGet(ForkPointOverrideKey(branch))
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// SetForkPointOverride persists commit as the fork point of branch. The
// commit must be an ancestor of (or equal to) the branch tip.
func (e *Engine) SetForkPointOverride(branch, commit string) error {
	sha, err := e.git.Revision(commit)
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", commit, err)
	}
	ok, err := e.isAncestor(sha, branch)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("commit %s is not an ancestor of branch %s, refusing to set fork point override", commit, branch)
	}
	return e.run.ConfigSet(ForkPointOverrideKey(branch), sha)
}

// UnsetForkPointOverride erases the persisted fork-point override of branch
func (e *Engine) UnsetForkPointOverride(branch string) error {
	return e.run.ConfigUnset(ForkPointOverrideKey(branch))
}

// EffectiveForkPoint returns the fork point honoring a persisted override.
// An override is honored only while it is an ancestor of (or equal to) the
// branch tip; a stale override is reported through the warn sink and
// inference proceeds as if it did not exist.
func (e *Engine) EffectiveForkPoint(branch string) (string, error) {
	if override, ok := e.ForkPointOverride(branch); ok {
		valid, err := e.isAncestor(override, branch)
		if err == nil && valid {
			return override, nil
		}
		e.warn("%s", trelliserrors.NewStaleOverrideError(branch, override).Error())
	}
	return e.InferForkPoint(branch)
}

// InferForkPoint finds the commit at which a branch's unique history
// diverges from every other branch: the most recent commit of the branch's
// own history that also appears in the reflog-derived commit set of some
// other local branch or remote-tracking branch. The branch's own reflog and
// the reflog of its own remote counterpart are excluded, so pushing a branch
// never moves its fork point to its tip.
//
// The branch's rev-list order is the single recency order, so ties between
// candidate commits cannot arise: the first commit of the tip-backwards walk
// found in any other branch's set wins.
func (e *Engine) InferForkPoint(branch string) (string, error) {
	e.mu.RLock()
	cached, ok := e.caches.forkPoints[branch]
	e.mu.RUnlock()
	if ok {
		if cached == "" {
			return "", trelliserrors.NewForkPointNotFoundError(branch)
		}
		return cached, nil
	}

	history, err := e.git.CommitHistory(branch)
	if err != nil {
		return "", err
	}

	sets, err := e.otherBranchReflogSets(branch)
	if err != nil {
		return "", err
	}

	forkPoint := ""
	for _, commit := range history {
		if sets[commit] {
			forkPoint = commit
			break
		}
	}

	e.mu.Lock()
	e.caches.forkPoints[branch] = forkPoint
	e.mu.Unlock()

	if forkPoint == "" {
		return "", trelliserrors.NewForkPointNotFoundError(branch)
	}
	return forkPoint, nil
}

// otherBranchReflogSets unions the reflog-derived commit sets of every ref
// other than the branch itself and its own remote counterpart.
func (e *Engine) otherBranchReflogSets(branch string) (map[string]bool, error) {
	locals, err := e.git.LocalBranches()
	if err != nil {
		return nil, err
	}
	remotes, err := e.git.RemoteBranches()
	if err != nil {
		return nil, err
	}

	ownCounterpart, _ := e.git.RemoteCounterpart(branch)

	union := make(map[string]bool)
	addRef := func(ref string) error {
		set, err := e.reflogSet(ref)
		if err != nil {
			return err
		}
		for commit := range set {
			union[commit] = true
		}
		return nil
	}

	for _, name := range locals {
		if name == branch {
			continue
		}
		if err := addRef(name); err != nil {
			return nil, err
		}
	}
	for _, name := range remotes {
		if name == ownCounterpart {
			continue
		}
		if err := addRef(name); err != nil {
			return nil, err
		}
	}

	return union, nil
}

// reflogSet returns the commits recorded in a ref's reflog plus its tip,
// cached for the run.
func (e *Engine) reflogSet(ref string) (map[string]bool, error) {
	e.mu.RLock()
	set, ok := e.caches.reflogSets[ref]
	e.mu.RUnlock()
	if ok {
		return set, nil
	}

	entries, err := e.git.ReflogEntries(ref)
	if err != nil {
		return nil, err
	}

	set = make(map[string]bool, len(entries)+1)
	for _, entry := range entries {
		set[entry] = true
	}
	if tip, err := e.git.Revision(ref); err == nil {
		set[tip] = true
	}

	e.mu.Lock()
	e.caches.reflogSets[ref] = set
	e.mu.Unlock()
	return set, nil
}
