package engine

import (
	"errors"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

// EdgeColor classifies the relationship between a branch and its parent in
// the dependency tree.
type EdgeColor int

const (
	// EdgeNone means the branch is a root and has no parent edge
	EdgeNone EdgeColor = iota
	// EdgeGreen: the branch is in sync with its parent and the fork point
	// equals the parent's tip
	EdgeGreen
	// EdgeYellow: the branch is a descendant of the parent tip but the fork
	// point is off (commit-range computations would start too early)
	EdgeYellow
	// EdgeRed: the branch tip is not a descendant of the parent tip
	EdgeRed
	// EdgeGrey: the branch is merged into its parent
	EdgeGrey
)

func (c EdgeColor) String() string {
	switch c {
	case EdgeNone:
		return "none"
	case EdgeGreen:
		return "green"
	case EdgeYellow:
		return "yellow"
	case EdgeRed:
		return "red"
	case EdgeGrey:
		return "grey"
	}
	return "unknown"
}

// RemoteStatus classifies a branch against its remote counterpart
type RemoteStatus int

const (
	// RemoteUntracked: the branch has no remote counterpart
	RemoteUntracked RemoteStatus = iota
	// RemoteInSync: local and remote tips are equal
	RemoteInSync
	// RemoteAhead: the remote tip is a strict ancestor of the local tip
	RemoteAhead
	// RemoteBehind: the local tip is a strict ancestor of the remote tip
	RemoteBehind
	// RemoteDivergedNewer: histories diverged and the local tip is newer
	RemoteDivergedNewer
	// RemoteDivergedOlder: histories diverged and the local tip is older
	RemoteDivergedOlder
)

func (s RemoteStatus) String() string {
	switch s {
	case RemoteUntracked:
		return "untracked"
	case RemoteInSync:
		return "in sync"
	case RemoteAhead:
		return "ahead of remote"
	case RemoteBehind:
		return "behind remote"
	case RemoteDivergedNewer:
		return "diverged from remote"
	case RemoteDivergedOlder:
		return "diverged from and older than remote"
	}
	return "unknown"
}

// RemoteState is the full remote classification of a branch
type RemoteState struct {
	Status      RemoteStatus
	Counterpart string // e.g. "origin/feature"; empty when untracked
	Remote      string // e.g. "origin"; empty when untracked
}

// ClassifyParentEdge computes the edge color between a branch and its
// parent. Roots get EdgeNone.
func (e *Engine) ClassifyParentEdge(branch string) (EdgeColor, error) {
	b := e.lay.Get(branch)
	if b == nil {
		return EdgeNone, trelliserrors.NewNotManagedError(branch)
	}
	if b.Parent == "" {
		return EdgeNone, nil
	}

	e.mu.RLock()
	cached, ok := e.caches.parentEdges[branch]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	color, err := e.classifyParentEdge(branch, b.Parent)
	if err != nil {
		return EdgeNone, err
	}

	e.mu.Lock()
	e.caches.parentEdges[branch] = color
	e.mu.Unlock()
	return color, nil
}

func (e *Engine) classifyParentEdge(branch, parent string) (EdgeColor, error) {
	merged, err := e.IsMergedToParent(branch, parent)
	if err != nil {
		return EdgeNone, err
	}
	if merged {
		return EdgeGrey, nil
	}

	descendant, err := e.isAncestor(parent, branch)
	if err != nil {
		return EdgeNone, err
	}
	if !descendant {
		return EdgeRed, nil
	}

	parentTip, err := e.Tip(parent)
	if err != nil {
		return EdgeNone, err
	}
	forkPoint, err := e.EffectiveForkPoint(branch)
	if err != nil {
		// Descendant of the parent, but no fork point could be inferred at
		// all: the rebase range is unknowable, report the edge as off
		if errors.Is(err, trelliserrors.ErrForkPointNotFound) {
			return EdgeYellow, nil
		}
		return EdgeNone, err
	}

	if forkPoint == parentTip {
		return EdgeGreen, nil
	}
	return EdgeYellow, nil
}

// ClassifyRemote computes the remote-tracking status of a branch
func (e *Engine) ClassifyRemote(branch string) (RemoteState, error) {
	e.mu.RLock()
	cached, ok := e.caches.remote[branch]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	state, err := e.classifyRemote(branch)
	if err != nil {
		return RemoteState{}, err
	}

	e.mu.Lock()
	e.caches.remote[branch] = state
	e.mu.Unlock()
	return state, nil
}

func (e *Engine) classifyRemote(branch string) (RemoteState, error) {
	counterpart, ok := e.git.RemoteCounterpart(branch)
	if !ok {
		return RemoteState{Status: RemoteUntracked}, nil
	}

	state := RemoteState{
		Counterpart: counterpart,
		Remote:      remoteOf(counterpart),
	}

	localTip, err := e.Tip(branch)
	if err != nil {
		return RemoteState{}, err
	}
	remoteTip, err := e.Tip(counterpart)
	if err != nil {
		return RemoteState{}, err
	}

	if localTip == remoteTip {
		state.Status = RemoteInSync
		return state, nil
	}

	remoteContained, err := e.isAncestor(counterpart, branch)
	if err != nil {
		return RemoteState{}, err
	}
	if remoteContained {
		state.Status = RemoteAhead
		return state, nil
	}

	localContained, err := e.isAncestor(branch, counterpart)
	if err != nil {
		return RemoteState{}, err
	}
	if localContained {
		state.Status = RemoteBehind
		return state, nil
	}

	// Histories diverged: compare the divergent tips' authored timestamps to
	// recommend push --force-with-lease (newer) vs. reset --keep (older).
	// Equal timestamps favor the local side, so push wins over reset.
	localDate, err := e.git.CommitAuthorDate(localTip)
	if err != nil {
		return RemoteState{}, err
	}
	remoteDate, err := e.git.CommitAuthorDate(remoteTip)
	if err != nil {
		return RemoteState{}, err
	}
	if localDate.Before(remoteDate) {
		state.Status = RemoteDivergedOlder
	} else {
		state.Status = RemoteDivergedNewer
	}
	return state, nil
}

func remoteOf(counterpart string) string {
	for i := 0; i < len(counterpart); i++ {
		if counterpart[i] == '/' {
			return counterpart[:i]
		}
	}
	return counterpart
}
