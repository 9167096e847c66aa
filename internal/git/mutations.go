package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Checkout checks out an existing branch
func (f *Facade) Checkout(ctx context.Context, branch string) error {
	_, err := f.runner.Run(ctx, "checkout", branch)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}
	return nil
}

// CreateAndCheckoutBranch creates and checks out a new branch at HEAD
func (f *Facade) CreateAndCheckoutBranch(ctx context.Context, branch string) error {
	_, err := f.runner.Run(ctx, "checkout", "-b", branch)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branch, err)
	}
	return nil
}

// DeleteBranch deletes a local branch; force uses -D instead of -d
func (f *Facade) DeleteBranch(ctx context.Context, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := f.runner.Run(ctx, "branch", flag, branch)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}

// Rebase replays forkPoint..branch onto onto and moves the branch ref.
// The rebase runs on a detached HEAD so it works regardless of which branch
// is checked out; the original checkout is restored afterwards. A conflict
// leaves the repository in git's native rebase state.
func (f *Facade) Rebase(ctx context.Context, branch, onto, forkPoint string) (RebaseResult, error) {
	currentBranch, err := f.CurrentBranch()
	var currentRev string
	if err != nil {
		currentBranch = ""
		currentRev, _ = f.runner.Run(ctx, "rev-parse", "HEAD")
	}

	branchRev, err := f.runner.Run(ctx, "rev-parse", "refs/heads/"+branch)
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get revision for %s: %w", branch, err)
	}

	// git rebase --onto <onto> <forkPoint> <branchRev> detaches HEAD at the
	// rebased commit on success
	_, err = f.runner.Run(ctx, "rebase", "--onto", onto, forkPoint, branchRev)
	if err != nil {
		if f.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		// Failed for a reason other than a conflict; restore the checkout
		_, _ = f.runner.Run(ctx, "rebase", "--abort")
		if currentBranch != "" {
			_ = f.Checkout(ctx, currentBranch)
		} else if currentRev != "" {
			_, _ = f.runner.Run(ctx, "checkout", "--detach", currentRev)
		}
		return RebaseConflict, err
	}

	newRev, err := f.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get new revision after rebase: %w", err)
	}

	_, err = f.runner.Run(ctx, "update-ref", "refs/heads/"+branch, newRev)
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to update branch reference %s: %w", branch, err)
	}

	// Restore the original checkout
	if currentBranch != "" {
		if err := f.Checkout(ctx, currentBranch); err != nil {
			return RebaseConflict, fmt.Errorf("failed to switch back to %s: %w", currentBranch, err)
		}
	} else if currentRev != "" {
		_, _ = f.runner.Run(ctx, "checkout", "--detach", currentRev)
	}

	return RebaseDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (f *Facade) IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := f.runner.Run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(f.repo.Root(), gitDir)
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}

// HasUncommittedChanges checks if the working tree or index is dirty
func (f *Facade) HasUncommittedChanges(ctx context.Context) bool {
	output, err := f.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false
	}
	return output != ""
}

// Merge merges source into branch, checking branch out first. A conflict
// leaves the repository in git's native merge state.
func (f *Facade) Merge(ctx context.Context, branch, source string) (MergeResult, error) {
	if err := f.Checkout(ctx, branch); err != nil {
		return MergeConflict, err
	}

	_, err := f.runner.Run(ctx, "merge", "--no-edit", source)
	if err != nil {
		// MERGE_HEAD existing means the merge stopped on a conflict
		if _, mergeHeadErr := f.runner.Run(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD"); mergeHeadErr == nil {
			return MergeConflict, nil
		}
		return MergeConflict, err
	}
	return MergeDone, nil
}

// Push pushes a branch to remote, setting up tracking. forceWithLease uses
// --force-with-lease so a remote moved by someone else is never overwritten.
func (f *Facade) Push(ctx context.Context, remote, branch string, forceWithLease bool) error {
	args := []string{"push", "--set-upstream"}
	if forceWithLease {
		args = append(args, "--force-with-lease")
	}
	args = append(args, remote, branch)

	_, err := f.runner.Run(ctx, args...)
	if err != nil {
		if forceWithLease && strings.Contains(err.Error(), "stale info") {
			return fmt.Errorf("force-with-lease push of %s rejected: the remote branch moved since it was last fetched; fetch and re-run traverse: %w", branch, err)
		}
		return fmt.Errorf("failed to push branch %s: %w", branch, err)
	}
	return nil
}

// PullFastForward fast-forwards branch to its counterpart. The branch must be
// checked out; a non-fast-forward situation is an error, never a merge.
func (f *Facade) PullFastForward(ctx context.Context, branch, counterpart string) error {
	_, err := f.runner.Run(ctx, "merge", "--ff-only", counterpart)
	if err != nil {
		return fmt.Errorf("failed to fast-forward %s to %s: %w", branch, counterpart, err)
	}
	return nil
}

// ResetKeep resets the checked-out branch to commit with --keep, which
// aborts rather than discarding local changes.
func (f *Facade) ResetKeep(ctx context.Context, branch, commit string) error {
	_, err := f.runner.Run(ctx, "reset", "--keep", commit)
	if err != nil {
		return fmt.Errorf("failed to reset %s to %s: %w", branch, commit, err)
	}
	return nil
}

// FastForward advances the checked-out branch to a descendant commit
func (f *Facade) FastForward(ctx context.Context, branch, to string) error {
	_, err := f.runner.Run(ctx, "merge", "--ff-only", to)
	if err != nil {
		return fmt.Errorf("failed to fast-forward %s to %s: %w", branch, to, err)
	}
	return nil
}

// Fetch fetches a remote, pruning deleted remote-tracking refs
func (f *Facade) Fetch(ctx context.Context, remote string) error {
	_, err := f.runner.Run(ctx, "fetch", "--prune", remote)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

// ConfigSet writes a repository-local git config value
func (f *Facade) ConfigSet(key, value string) error {
	_, err := f.runner.Run(context.Background(), "config", key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// ConfigUnset removes a repository-local git config value
func (f *Facade) ConfigUnset(key string) error {
	_, err := f.runner.Run(context.Background(), "config", "--unset", key)
	if err != nil {
		// Unsetting a missing key is not an error worth surfacing
		return nil
	}
	return nil
}
