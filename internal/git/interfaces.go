package git

import (
	"context"
	"time"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// MergeResult represents the result of a merge operation
type MergeResult int

const (
	// MergeDone indicates the merge was successful
	MergeDone MergeResult = iota
	// MergeConflict indicates a conflict occurred during merge
	MergeConflict
)

// Querier answers read-only questions about the repository. The engine
// consumes only this interface; results are safe to cache until a ref moves.
type Querier interface {
	// Branches and refs
	CurrentBranch() (string, error)
	LocalBranches() ([]string, error)
	BranchExists(name string) bool
	Revision(ref string) (string, error)

	// Ancestry and history
	IsAncestor(ancestor, descendant string) (bool, error)
	MergeBase(a, b string) (string, error)
	// CommitRange lists base..tip, newest first
	CommitRange(base, tip string) ([]string, error)
	// CommitHistory lists every commit reachable from tip, newest first
	CommitHistory(tip string) ([]string, error)
	CommitSubject(commit string) (string, error)
	CommitAuthorDate(commit string) (time.Time, error)

	// Reflogs, trees and patch ids
	ReflogEntries(ref string) ([]string, error)
	TreeHash(commit string) (string, error)
	// PatchID computes the stable patch id of the whole diff base..tip
	PatchID(base, tip string) (string, error)
	// CommitPatchID computes the stable patch id of a single commit's diff
	CommitPatchID(commit string) (string, error)

	// Remote tracking
	RemoteBranches() ([]string, error)
	// RemoteCounterpart returns the remote-tracking ref of a branch
	// (e.g. "origin/feature") and whether one exists
	RemoteCounterpart(branch string) (string, bool)
	Remotes() ([]string, error)
	AheadBehindCounts(a, b string) (int, int, error)

	// Repository-level configuration
	ConfigGet(key string) (string, error)
}

// Runner performs ref-moving git operations. Callers must invalidate any
// caches derived from Querier results after a Runner call succeeds.
type Runner interface {
	Checkout(ctx context.Context, branch string) error
	CreateAndCheckoutBranch(ctx context.Context, branch string) error
	DeleteBranch(ctx context.Context, branch string, force bool) error

	// Rebase replays forkPoint..branch onto onto and moves the branch ref
	Rebase(ctx context.Context, branch, onto, forkPoint string) (RebaseResult, error)
	// Merge merges source into branch (checking branch out first)
	Merge(ctx context.Context, branch, source string) (MergeResult, error)

	Push(ctx context.Context, remote, branch string, forceWithLease bool) error
	// PullFastForward fast-forwards branch to counterpart, failing on divergence
	PullFastForward(ctx context.Context, branch, counterpart string) error
	// ResetKeep resets the checked-out branch to commit, keeping local changes
	ResetKeep(ctx context.Context, branch, commit string) error
	// FastForward advances the checked-out branch to a descendant commit
	FastForward(ctx context.Context, branch, to string) error
	Fetch(ctx context.Context, remote string) error

	ConfigSet(key, value string) error
	ConfigUnset(key string) error
}
