package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"trellis.dev/trellis/internal/git"
)

// FakeCommit is a commit node of the in-memory repository graph
type FakeCommit struct {
	SHA        string
	Parents    []string
	Tree       string
	PatchID    string
	Subject    string
	AuthorDate time.Time
	seq        int
}

// FakeGit is an in-memory git repository implementing git.Querier and
// git.Runner. It models exactly what the engine and the traversal consume:
// a commit DAG with tree hashes and patch ids, branch tips, per-ref reflogs,
// remote-tracking refs and a config store.
//
// Unless overridden, a commit's tree hash is unique per commit and its patch
// id is derived from the subject, so replaying a commit (rebase) preserves
// its patch id while squashing several commits does not, matching the
// semantics the detection modes rely on. The patch id of a whole range is
// the "+"-join of its subjects, oldest first.
type FakeGit struct {
	Commits    map[string]*FakeCommit
	Branches   map[string]string // local branch → tip sha
	RemoteRefs map[string]string // "origin/x" → tip sha
	Reflogs    map[string][]string
	Upstreams  map[string]string // branch → counterpart ref
	Config     map[string]string
	Current    string

	// Operations records every ref-moving call, for assertions that a walk
	// left the repository untouched
	Operations []string

	// FailRebase / FailMerge make the next rebase/merge report a conflict
	FailRebase bool
	FailMerge  bool

	clock time.Time
	seq   int
}

var (
	_ git.Querier = (*FakeGit)(nil)
	_ git.Runner  = (*FakeGit)(nil)
)

// NewFakeGit creates an empty in-memory repository
func NewFakeGit() *FakeGit {
	return &FakeGit{
		Commits:    make(map[string]*FakeCommit),
		Branches:   make(map[string]string),
		RemoteRefs: make(map[string]string),
		Reflogs:    make(map[string][]string),
		Upstreams:  make(map[string]string),
		Config:     make(map[string]string),
		clock:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// --- graph construction helpers ---

func (f *FakeGit) newCommit(subject string, parents ...string) *FakeCommit {
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	sha := fmt.Sprintf("c%03d", f.seq)
	commit := &FakeCommit{
		SHA:        sha,
		Parents:    parents,
		Tree:       "tree:" + sha,
		PatchID:    "patch:" + subject,
		Subject:    subject,
		AuthorDate: f.clock,
		seq:        f.seq,
	}
	f.Commits[sha] = commit
	return commit
}

// Commit appends a commit with the given subject to a branch and returns
// its sha. The branch is created at the new commit if it does not exist.
func (f *FakeGit) Commit(branch, subject string) string {
	var parents []string
	if tip, ok := f.Branches[branch]; ok {
		parents = []string{tip}
	}
	commit := f.newCommit(subject, parents...)
	f.moveRef(branch, commit.SHA)
	return commit.SHA
}

// CreateBranch creates a branch pointing at a commit
func (f *FakeGit) CreateBranch(name, at string) {
	f.moveRef(name, f.mustResolve(at))
}

// MoveBranch forcibly repoints a branch (simulating reset or amend),
// recording the move in its reflog.
func (f *FakeGit) MoveBranch(name, to string) {
	f.moveRef(name, f.mustResolve(to))
}

// MergeCommit creates a two-parent merge commit on branch merging other
func (f *FakeGit) MergeCommit(branch, other string) string {
	commit := f.newCommit("Merge "+other, f.Branches[branch], f.mustResolve(other))
	f.moveRef(branch, commit.SHA)
	return commit.SHA
}

// SetTree overrides a commit's tree hash
func (f *FakeGit) SetTree(sha, tree string) {
	f.Commits[f.mustResolve(sha)].Tree = tree
}

// SetPatchID overrides a commit's patch id
func (f *FakeGit) SetPatchID(sha, patchID string) {
	f.Commits[f.mustResolve(sha)].PatchID = patchID
}

// SetRemote publishes a branch: its counterpart ref is created (or moved) to
// the branch's current tip.
func (f *FakeGit) SetRemote(branch string) {
	ref := "origin/" + branch
	f.moveRef(ref, f.Branches[branch])
	f.Upstreams[branch] = ref
}

// AdvanceRemote appends a commit to a branch's remote counterpart only
func (f *FakeGit) AdvanceRemote(branch, subject string) string {
	ref := "origin/" + branch
	commit := f.newCommit(subject, f.RemoteRefs[ref])
	f.moveRef(ref, commit.SHA)
	return commit.SHA
}

func (f *FakeGit) moveRef(name, sha string) {
	if strings.Contains(name, "/") && !strings.HasPrefix(name, "refs/") {
		if isRemoteRefName(name) {
			f.RemoteRefs[name] = sha
			f.Reflogs[name] = append([]string{sha}, f.Reflogs[name]...)
			return
		}
	}
	f.Branches[name] = sha
	f.Reflogs[name] = append([]string{sha}, f.Reflogs[name]...)
}

func isRemoteRefName(name string) bool {
	return strings.HasPrefix(name, "origin/")
}

func (f *FakeGit) mustResolve(ref string) string {
	sha, err := f.Revision(ref)
	if err != nil {
		panic(err)
	}
	return sha
}

func (f *FakeGit) ancestors(sha string) map[string]bool {
	seen := make(map[string]bool)
	stack := []string{sha}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current] {
			continue
		}
		seen[current] = true
		if commit, ok := f.Commits[current]; ok {
			stack = append(stack, commit.Parents...)
		}
	}
	return seen
}

func (f *FakeGit) sortNewestFirst(shas []string) {
	sort.Slice(shas, func(i, j int) bool {
		return f.Commits[shas[i]].seq > f.Commits[shas[j]].seq
	})
}

// --- git.Querier ---

// CurrentBranch returns the checked-out branch
func (f *FakeGit) CurrentBranch() (string, error) {
	if f.Current == "" {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return f.Current, nil
}

// LocalBranches returns all local branch names, sorted
func (f *FakeGit) LocalBranches() ([]string, error) {
	names := make([]string, 0, len(f.Branches))
	for name := range f.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// BranchExists reports whether a local branch exists
func (f *FakeGit) BranchExists(name string) bool {
	_, ok := f.Branches[name]
	return ok
}

// Revision resolves a branch, remote ref or sha
func (f *FakeGit) Revision(ref string) (string, error) {
	if sha, ok := f.Branches[ref]; ok {
		return sha, nil
	}
	if sha, ok := f.RemoteRefs[ref]; ok {
		return sha, nil
	}
	if _, ok := f.Commits[ref]; ok {
		return ref, nil
	}
	return "", fmt.Errorf("failed to resolve %s", ref)
}

// IsAncestor reports ancestor-or-equal
func (f *FakeGit) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorSHA, err := f.Revision(ancestor)
	if err != nil {
		return false, err
	}
	descendantSHA, err := f.Revision(descendant)
	if err != nil {
		return false, err
	}
	return f.ancestors(descendantSHA)[ancestorSHA], nil
}

// MergeBase returns the most recent common ancestor
func (f *FakeGit) MergeBase(a, b string) (string, error) {
	shaA, err := f.Revision(a)
	if err != nil {
		return "", err
	}
	shaB, err := f.Revision(b)
	if err != nil {
		return "", err
	}
	ancestorsB := f.ancestors(shaB)
	var common []string
	for sha := range f.ancestors(shaA) {
		if ancestorsB[sha] {
			common = append(common, sha)
		}
	}
	if len(common) == 0 {
		return "", fmt.Errorf("no merge base found between %s and %s", a, b)
	}
	f.sortNewestFirst(common)
	return common[0], nil
}

// CommitRange lists base..tip, newest first
func (f *FakeGit) CommitRange(base, tip string) ([]string, error) {
	baseSHA, err := f.Revision(base)
	if err != nil {
		return nil, err
	}
	tipSHA, err := f.Revision(tip)
	if err != nil {
		return nil, err
	}
	excluded := f.ancestors(baseSHA)
	var result []string
	for sha := range f.ancestors(tipSHA) {
		if !excluded[sha] {
			result = append(result, sha)
		}
	}
	f.sortNewestFirst(result)
	return result, nil
}

// CommitHistory lists every commit reachable from tip, newest first
func (f *FakeGit) CommitHistory(tip string) ([]string, error) {
	tipSHA, err := f.Revision(tip)
	if err != nil {
		return nil, err
	}
	var result []string
	for sha := range f.ancestors(tipSHA) {
		result = append(result, sha)
	}
	f.sortNewestFirst(result)
	return result, nil
}

// CommitSubject returns a commit's subject line
func (f *FakeGit) CommitSubject(commit string) (string, error) {
	sha, err := f.Revision(commit)
	if err != nil {
		return "", err
	}
	return f.Commits[sha].Subject, nil
}

// CommitAuthorDate returns a commit's authored timestamp
func (f *FakeGit) CommitAuthorDate(commit string) (time.Time, error) {
	sha, err := f.Revision(commit)
	if err != nil {
		return time.Time{}, err
	}
	return f.Commits[sha].AuthorDate, nil
}

// ReflogEntries returns a ref's recorded tips, newest first
func (f *FakeGit) ReflogEntries(ref string) ([]string, error) {
	return append([]string(nil), f.Reflogs[ref]...), nil
}

// TreeHash returns a commit's tree hash
func (f *FakeGit) TreeHash(commit string) (string, error) {
	sha, err := f.Revision(commit)
	if err != nil {
		return "", err
	}
	return f.Commits[sha].Tree, nil
}

// PatchID returns the patch id of the whole diff base..tip: the "+"-join of
// the range's subjects, oldest first (a single-commit range therefore equals
// that commit's default patch id)
func (f *FakeGit) PatchID(base, tip string) (string, error) {
	rangeSHAs, err := f.CommitRange(base, tip)
	if err != nil {
		return "", err
	}
	if len(rangeSHAs) == 0 {
		return "", nil
	}
	subjects := make([]string, 0, len(rangeSHAs))
	for i := len(rangeSHAs) - 1; i >= 0; i-- {
		subjects = append(subjects, f.Commits[rangeSHAs[i]].Subject)
	}
	return "patch:" + strings.Join(subjects, "+"), nil
}

// CommitPatchID returns a single commit's patch id
func (f *FakeGit) CommitPatchID(commit string) (string, error) {
	sha, err := f.Revision(commit)
	if err != nil {
		return "", err
	}
	return f.Commits[sha].PatchID, nil
}

// RemoteBranches returns all remote-tracking ref names, sorted
func (f *FakeGit) RemoteBranches() ([]string, error) {
	names := make([]string, 0, len(f.RemoteRefs))
	for name := range f.RemoteRefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// RemoteCounterpart returns a branch's remote-tracking ref, if any
func (f *FakeGit) RemoteCounterpart(branch string) (string, bool) {
	if ref, ok := f.Upstreams[branch]; ok {
		if _, exists := f.RemoteRefs[ref]; exists {
			return ref, true
		}
	}
	ref := "origin/" + branch
	if _, exists := f.RemoteRefs[ref]; exists {
		return ref, true
	}
	return "", false
}

// Remotes returns the remote names in use
func (f *FakeGit) Remotes() ([]string, error) {
	if len(f.RemoteRefs) == 0 {
		return nil, nil
	}
	return []string{"origin"}, nil
}

// AheadBehindCounts counts commits unique to each side
func (f *FakeGit) AheadBehindCounts(a, b string) (int, int, error) {
	onlyA, err := f.CommitRange(b, a)
	if err != nil {
		return 0, 0, err
	}
	onlyB, err := f.CommitRange(a, b)
	if err != nil {
		return 0, 0, err
	}
	return len(onlyA), len(onlyB), nil
}

// ConfigGet reads a config value; missing keys yield ""
func (f *FakeGit) ConfigGet(key string) (string, error) {
	return f.Config[key], nil
}

// --- git.Runner ---

// Checkout switches the checked-out branch
func (f *FakeGit) Checkout(_ context.Context, branch string) error {
	if !f.BranchExists(branch) {
		return fmt.Errorf("branch %s does not exist", branch)
	}
	f.Current = branch
	f.Operations = append(f.Operations, "checkout "+branch)
	return nil
}

// CreateAndCheckoutBranch creates a branch at the current tip and checks it out
func (f *FakeGit) CreateAndCheckoutBranch(_ context.Context, branch string) error {
	if f.BranchExists(branch) {
		return fmt.Errorf("branch %s already exists", branch)
	}
	tip := ""
	if f.Current != "" {
		tip = f.Branches[f.Current]
	}
	if tip == "" {
		return fmt.Errorf("nothing to branch from")
	}
	f.moveRef(branch, tip)
	f.Current = branch
	f.Operations = append(f.Operations, "create "+branch)
	return nil
}

// DeleteBranch removes a local branch
func (f *FakeGit) DeleteBranch(_ context.Context, branch string, force bool) error {
	if !f.BranchExists(branch) {
		return fmt.Errorf("branch %s does not exist", branch)
	}
	delete(f.Branches, branch)
	delete(f.Reflogs, branch)
	f.Operations = append(f.Operations, "delete "+branch)
	return nil
}

// Rebase replays forkPoint..branch onto onto, preserving subjects and patch
// ids of the replayed commits
func (f *FakeGit) Rebase(_ context.Context, branch, onto, forkPoint string) (git.RebaseResult, error) {
	if f.FailRebase {
		f.Operations = append(f.Operations, "rebase-conflict "+branch)
		return git.RebaseConflict, nil
	}

	unique, err := f.CommitRange(forkPoint, branch)
	if err != nil {
		return git.RebaseConflict, err
	}
	base, err := f.Revision(onto)
	if err != nil {
		return git.RebaseConflict, err
	}

	tip := base
	for i := len(unique) - 1; i >= 0; i-- {
		original := f.Commits[unique[i]]
		replayed := f.newCommit(original.Subject, tip)
		replayed.PatchID = original.PatchID
		tip = replayed.SHA
	}
	f.moveRef(branch, tip)
	f.Operations = append(f.Operations, "rebase "+branch+" onto "+onto)
	return git.RebaseDone, nil
}

// Merge merges source into branch with a merge commit
func (f *FakeGit) Merge(_ context.Context, branch, source string) (git.MergeResult, error) {
	if f.FailMerge {
		f.Operations = append(f.Operations, "merge-conflict "+branch)
		return git.MergeConflict, nil
	}
	f.Current = branch
	f.MergeCommit(branch, source)
	f.Operations = append(f.Operations, "merge "+source+" into "+branch)
	return git.MergeDone, nil
}

// Push publishes a branch to its counterpart ref
func (f *FakeGit) Push(_ context.Context, remote, branch string, forceWithLease bool) error {
	ref := remote + "/" + branch
	if remoteTip, exists := f.RemoteRefs[ref]; exists && !forceWithLease {
		localContains := f.ancestors(f.Branches[branch])[remoteTip]
		if !localContains {
			return fmt.Errorf("failed to push branch %s: non-fast-forward", branch)
		}
	}
	f.moveRef(ref, f.Branches[branch])
	f.Upstreams[branch] = ref
	f.Operations = append(f.Operations, "push "+branch)
	return nil
}

// PullFastForward fast-forwards a branch to its counterpart
func (f *FakeGit) PullFastForward(_ context.Context, branch, counterpart string) error {
	remoteTip, err := f.Revision(counterpart)
	if err != nil {
		return err
	}
	if !f.ancestors(remoteTip)[f.Branches[branch]] {
		return fmt.Errorf("failed to fast-forward %s to %s", branch, counterpart)
	}
	f.moveRef(branch, remoteTip)
	f.Operations = append(f.Operations, "pull "+branch)
	return nil
}

// ResetKeep repoints a branch at a commit
func (f *FakeGit) ResetKeep(_ context.Context, branch, commit string) error {
	sha, err := f.Revision(commit)
	if err != nil {
		return err
	}
	f.moveRef(branch, sha)
	f.Operations = append(f.Operations, "reset "+branch)
	return nil
}

// FastForward advances a branch to a descendant commit
func (f *FakeGit) FastForward(_ context.Context, branch, to string) error {
	sha, err := f.Revision(to)
	if err != nil {
		return err
	}
	if !f.ancestors(sha)[f.Branches[branch]] {
		return fmt.Errorf("failed to fast-forward %s to %s", branch, to)
	}
	f.moveRef(branch, sha)
	f.Operations = append(f.Operations, "fast-forward "+branch)
	return nil
}

// Fetch is a no-op for the in-memory repository
func (f *FakeGit) Fetch(_ context.Context, remote string) error {
	f.Operations = append(f.Operations, "fetch "+remote)
	return nil
}

// ConfigSet writes a config value
func (f *FakeGit) ConfigSet(key, value string) error {
	f.Config[key] = value
	return nil
}

// ConfigUnset removes a config value
func (f *FakeGit) ConfigUnset(key string) error {
	delete(f.Config, key)
	return nil
}
