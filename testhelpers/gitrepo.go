package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo drives a real git repository in a temporary directory. It exists
// for integration tests that need actual reflogs, refs and worktree state
// rather than the scripted history of FakeGit.
type GitRepo struct {
	Dir string

	t *testing.T
}

// RequireGit skips the test when no git binary is available on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}
}

// NewGitRepo initializes a fresh repository under t.TempDir with a single
// commit on master and a configured test identity.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	RequireGit(t)

	repo := &GitRepo{Dir: t.TempDir(), t: t}

	cmd := exec.Command("git", "-c", "core.autocrlf=false", "init", "-b", "master", repo.Dir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, out)
	}

	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "user.email", "test@example.com")
	repo.CommitChange("initial", "initial commit")
	return repo
}

// Git runs a git command inside the repository and returns its trimmed
// output, failing the test on error.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// CommitChange writes content to a scratch file and commits it
func (r *GitRepo) CommitChange(content, message string) string {
	r.t.Helper()
	path := filepath.Join(r.Dir, "change.txt")
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
	r.Git("add", ".")
	r.Git("commit", "-m", message)
	return r.Git("rev-parse", "HEAD")
}

// NewBranch creates and checks out a branch at the current HEAD
func (r *GitRepo) NewBranch(name string) {
	r.t.Helper()
	r.Git("checkout", "-b", name)
}

// Checkout switches to an existing branch
func (r *GitRepo) Checkout(name string) {
	r.t.Helper()
	r.Git("checkout", name)
}

// SHA resolves a revision to its commit hash
func (r *GitRepo) SHA(rev string) string {
	r.t.Helper()
	return r.Git("rev-parse", rev)
}

// WriteLayoutFile writes the branch layout file under .git
func (r *GitRepo) WriteLayoutFile(content string) string {
	r.t.Helper()
	path := filepath.Join(r.Dir, ".git", "trellis")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadLayoutFile returns the raw contents of the branch layout file
func (r *GitRepo) ReadLayoutFile() string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.Dir, ".git", "trellis"))
	if err != nil {
		r.t.Fatalf("read layout file: %v", err)
	}
	return string(data)
}

// CreateBareRemote creates a bare sibling repository and registers it as a
// remote with the given name.
func (r *GitRepo) CreateBareRemote(name string) string {
	r.t.Helper()
	bare := filepath.Join(r.t.TempDir(), fmt.Sprintf("%s.git", name))
	cmd := exec.Command("git", "init", "--bare", bare)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if out, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("git init --bare: %v\n%s", err, out)
	}
	r.Git("remote", "add", name, bare)
	return bare
}
