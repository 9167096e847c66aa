package actions

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/git"
	"trellis.dev/trellis/internal/layout"
	"trellis.dev/trellis/internal/tui"
	"trellis.dev/trellis/testhelpers"
)

// newRealEnv is newTestEnv's sibling for tests that need a real repository:
// same hooks, but git calls hit an actual worktree and saving writes the
// actual layout file under .git.
func newRealEnv(t *testing.T, repo *testhelpers.GitRepo, layoutText string) (*testEnv, *git.Facade) {
	t.Helper()

	facade, err := git.NewFacade(repo.Dir)
	require.NoError(t, err)

	lay, err := layout.Parse(layoutText)
	require.NoError(t, err)

	var output bytes.Buffer
	splog, err := tui.NewSplogWithConfig(&output, "")
	require.NoError(t, err)

	cfg := &config.RunConfig{
		LayoutPath:           filepath.Join(repo.Dir, ".git", "trellis"),
		Interactive:          true,
		ASCII:                true,
		SquashMergeDetection: config.SquashMergeDetectionSimple,
		TraversePush:         true,
	}

	te := &testEnv{output: &output}
	te.Env = &Env{
		Layout: lay,
		Engine: engine.New(lay, facade, facade, engine.SquashMergeSimple),
		Git:    facade,
		Config: cfg,
		Splog:  splog,
		SaveLayout: func() error {
			te.saved++
			return layout.WriteFile(cfg.LayoutPath, lay)
		},
		SaveLayoutWithBackup: func() error {
			te.saved++
			return layout.WriteFileWithBackup(cfg.LayoutPath, lay)
		},
		ConfirmFunc: func(string, bool) (bool, error) {
			return true, nil
		},
		AskFunc: func(string) (tui.TraverseAnswer, error) {
			return tui.AnswerYes, nil
		},
		SelectBranchFunc: func(_ string, options []string) (string, error) {
			return options[0], nil
		},
	}
	return te, facade
}

func TestDiscoverAgainstRealRepository(t *testing.T) {
	t.Parallel()

	repo := testhelpers.NewGitRepo(t)
	repo.CommitChange("base", "base work on master")
	repo.NewBranch("feature")
	repo.CommitChange("feature", "feature work")
	repo.NewBranch("fixup")
	repo.CommitChange("fixup", "fixup work")
	repo.Checkout("master")

	env, _ := newRealEnv(t, repo, "")

	require.NoError(t, Discover(env.Env))

	require.Equal(t, []string{"master", "feature", "fixup"}, env.Layout.Names())
	require.Equal(t, "master", env.Layout.Get("feature").Parent)
	require.Equal(t, "feature", env.Layout.Get("fixup").Parent)
	require.Equal(t, 1, env.saved)

	saved, err := layout.ReadFile(env.Config.LayoutPath)
	require.NoError(t, err)
	require.Equal(t, env.Layout.Names(), saved.Names())
}

func TestStatusAgainstRealRepository(t *testing.T) {
	t.Parallel()

	repo := testhelpers.NewGitRepo(t)
	repo.CommitChange("base", "base work on master")
	repo.NewBranch("feature")
	repo.CommitChange("feature", "feature work")
	repo.Checkout("master")

	env, _ := newRealEnv(t, repo, "master\n\tfeature\n")

	require.NoError(t, Status(env.Env, StatusOptions{}))

	out := env.output.String()
	require.Contains(t, out, "master")
	require.Contains(t, out, "feature")
}
