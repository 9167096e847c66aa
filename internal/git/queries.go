package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// CurrentBranch returns the name of the checked-out branch
func (f *Facade) CurrentBranch() (string, error) {
	return f.repo.CurrentBranch()
}

// LocalBranches returns all local branch names
func (f *Facade) LocalBranches() ([]string, error) {
	return f.repo.LocalBranchNames()
}

// BranchExists reports whether a local branch with the given name exists
func (f *Facade) BranchExists(name string) bool {
	_, err := f.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	return err == nil
}

// Revision resolves a branch name, remote ref or revision to a commit hash
func (f *Facade) Revision(ref string) (string, error) {
	hash, err := f.repo.resolveRefHash(ref)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// IsAncestor checks if ancestor is an ancestor of (or equal to) descendant
func (f *Facade) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorHash, err := f.repo.resolveRefHash(ancestor)
	if err != nil {
		return false, err
	}
	descendantHash, err := f.repo.resolveRefHash(descendant)
	if err != nil {
		return false, err
	}

	if ancestorHash == descendantHash {
		return true, nil
	}

	ancestorCommit, err := f.repo.CommitObject(ancestorHash)
	if err != nil {
		return false, fmt.Errorf("failed to get ancestor commit: %w", err)
	}
	descendantCommit, err := f.repo.CommitObject(descendantHash)
	if err != nil {
		return false, fmt.Errorf("failed to get descendant commit: %w", err)
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}

// MergeBase returns the merge base of two refs
func (f *Facade) MergeBase(a, b string) (string, error) {
	hashA, err := f.repo.resolveRefHash(a)
	if err != nil {
		return "", err
	}
	hashB, err := f.repo.resolveRefHash(b)
	if err != nil {
		return "", err
	}

	commitA, err := f.repo.CommitObject(hashA)
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %s: %w", a, err)
	}
	commitB, err := f.repo.CommitObject(hashB)
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %s: %w", b, err)
	}

	mergeBases, err := commitA.MergeBase(commitB)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(mergeBases) == 0 {
		return "", fmt.Errorf("no merge base found between %s and %s", a, b)
	}

	return mergeBases[0].Hash.String(), nil
}

// CommitRange lists the commits of base..tip, newest first
func (f *Facade) CommitRange(base, tip string) ([]string, error) {
	return f.runner.RunLines(context.Background(), "rev-list", base+".."+tip)
}

// CommitHistory lists every commit reachable from tip, newest first
func (f *Facade) CommitHistory(tip string) ([]string, error) {
	return f.runner.RunLines(context.Background(), "rev-list", tip)
}

// CommitSubject returns the subject line of a commit
func (f *Facade) CommitSubject(commit string) (string, error) {
	hash, err := f.repo.resolveRefHash(commit)
	if err != nil {
		return "", err
	}
	obj, err := f.repo.CommitObject(hash)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", commit, err)
	}
	subject := obj.Message
	if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
		subject = subject[:idx]
	}
	return strings.TrimSpace(subject), nil
}

// CommitAuthorDate returns the authored timestamp of a commit
func (f *Facade) CommitAuthorDate(commit string) (time.Time, error) {
	hash, err := f.repo.resolveRefHash(commit)
	if err != nil {
		return time.Time{}, err
	}
	obj, err := f.repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get commit %s: %w", commit, err)
	}
	return obj.Author.When, nil
}

// ReflogEntries returns the commit hashes recorded in a ref's reflog, newest
// first. A ref without a reflog yields an empty list.
func (f *Facade) ReflogEntries(ref string) ([]string, error) {
	lines, err := f.runner.RunLines(context.Background(), "reflog", "show", "--format=%H", ref)
	if err != nil {
		// Refs created without reflogs (e.g. fetched remote refs on some
		// configurations) are not an error for our purposes.
		return []string{}, nil
	}
	return lines, nil
}

// TreeHash returns the tree hash of a commit
func (f *Facade) TreeHash(commit string) (string, error) {
	hash, err := f.repo.resolveRefHash(commit)
	if err != nil {
		return "", err
	}
	obj, err := f.repo.CommitObject(hash)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", commit, err)
	}
	return obj.TreeHash.String(), nil
}

// PatchID computes the stable patch id of the whole diff base..tip.
// An empty diff yields an empty patch id.
func (f *Facade) PatchID(base, tip string) (string, error) {
	diff, err := f.runner.RunRaw(context.Background(), "diff", base, tip)
	if err != nil {
		return "", err
	}
	return f.patchIDOfDiff(diff)
}

// CommitPatchID computes the stable patch id of a single commit's diff
func (f *Facade) CommitPatchID(commit string) (string, error) {
	diff, err := f.runner.RunRaw(context.Background(), "diff-tree", "--patch", "--unified=3", commit)
	if err != nil {
		return "", err
	}
	return f.patchIDOfDiff(diff)
}

func (f *Facade) patchIDOfDiff(diff string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", nil
	}
	output, err := f.runner.RunWithInput(context.Background(), diff, "patch-id", "--stable")
	if err != nil {
		return "", err
	}
	// Output is "<patch-id> <commit-id>"; only the patch id matters here
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// RemoteBranches returns all remote-tracking branch names (e.g. "origin/main")
func (f *Facade) RemoteBranches() ([]string, error) {
	refs, err := f.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() {
			short := ref.Name().Short()
			if !strings.HasSuffix(short, "/HEAD") {
				names = append(names, short)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	return names, nil
}

// RemoteCounterpart returns the remote-tracking ref of a branch and whether
// one exists. The branch's configured upstream wins; otherwise the same-named
// branch on the sole remote (or "origin") is used when present.
func (f *Facade) RemoteCounterpart(branch string) (string, bool) {
	remote, err := f.ConfigGet("branch." + branch + ".remote")
	if err == nil && remote != "" && remote != "." {
		merge, err := f.ConfigGet("branch." + branch + ".merge")
		if err == nil && merge != "" {
			counterpart := remote + "/" + strings.TrimPrefix(merge, "refs/heads/")
			if _, err := f.repo.resolveRefHash(counterpart); err == nil {
				return counterpart, true
			}
		}
	}

	// Fall back to the same-named branch on the default remote
	counterpart := "origin/" + branch
	if _, err := f.repo.resolveRefHash(counterpart); err == nil {
		return counterpart, true
	}
	return "", false
}

// Remotes returns the configured remote names
func (f *Facade) Remotes() ([]string, error) {
	remotes, err := f.repo.Repository.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to get remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	return names, nil
}

// AheadBehindCounts returns how many commits a has that b does not, and vice versa
func (f *Facade) AheadBehindCounts(a, b string) (int, int, error) {
	output, err := f.runner.Run(context.Background(), "rev-list", "--left-right", "--count", a+"..."+b)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(output)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list --count output %q", output)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list --count output %q", output)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list --count output %q", output)
	}
	return ahead, behind, nil
}

// ConfigGet reads a git config value; a missing key returns an empty string
func (f *Facade) ConfigGet(key string) (string, error) {
	value, err := f.runner.Run(context.Background(), "config", "--get", key)
	if err != nil {
		// git config --get exits non-zero for missing keys
		return "", nil
	}
	return value, nil
}
