package engine

import (
	"errors"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

// Commit is a listed commit of a branch's unique history
type Commit struct {
	SHA     string
	Subject string
}

// UniqueCommits lists a branch's unique history, effective fork point
// (exclusive) to tip, oldest first. A branch with no inferable fork point
// yields its whole history.
func (e *Engine) UniqueCommits(branch string) ([]Commit, error) {
	var shas []string

	forkPoint, err := e.EffectiveForkPoint(branch)
	switch {
	case err == nil:
		shas, err = e.git.CommitRange(forkPoint, branch)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, trelliserrors.ErrForkPointNotFound):
		shas, err = e.git.CommitHistory(branch)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// rev-list order is newest first; listings read oldest first
	commits := make([]Commit, 0, len(shas))
	for i := len(shas) - 1; i >= 0; i-- {
		subject, err := e.git.CommitSubject(shas[i])
		if err != nil {
			return nil, err
		}
		commits = append(commits, Commit{SHA: shas[i], Subject: subject})
	}
	return commits, nil
}
