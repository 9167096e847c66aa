package git

import (
	"fmt"
)

// Facade implements Querier and Runner against a real repository, using
// go-git for object and ref reads and git subprocesses for everything that
// moves refs or has no cheap in-process equivalent (reflogs, patch ids,
// rebase, push).
type Facade struct {
	runner *CommandRunner
	repo   *Repository
}

// compile-time interface checks
var (
	_ Querier = (*Facade)(nil)
	_ Runner  = (*Facade)(nil)
)

// NewFacade opens the repository at repoRoot and returns a facade over it
func NewFacade(repoRoot string) (*Facade, error) {
	repo, err := OpenRepository(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", repoRoot, err)
	}

	return &Facade{
		runner: NewCommandRunner(repoRoot),
		repo:   repo,
	}, nil
}

// Repo returns the underlying go-git repository wrapper
func (f *Facade) Repo() *Repository {
	return f.repo
}
