package actions

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/internal/config"
	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/layout"
	"trellis.dev/trellis/internal/tui"
	"trellis.dev/trellis/testhelpers"
)

// testEnv is an Env over the in-memory fake repository, with prompt hooks
// answering yes and a buffer capturing output
type testEnv struct {
	*Env
	fake   *testhelpers.FakeGit
	output *bytes.Buffer
	saved  int
}

func newTestEnv(t *testing.T, fake *testhelpers.FakeGit, layoutText string) *testEnv {
	t.Helper()

	lay, err := layout.Parse(layoutText)
	require.NoError(t, err)

	var output bytes.Buffer
	splog, err := tui.NewSplogWithConfig(&output, "")
	require.NoError(t, err)

	cfg := &config.RunConfig{
		LayoutPath:           ".git/trellis",
		Interactive:          true,
		ASCII:                true,
		SquashMergeDetection: config.SquashMergeDetectionSimple,
		TraversePush:         true,
	}

	te := &testEnv{fake: fake, output: &output}
	te.Env = &Env{
		Layout: lay,
		Engine: engine.New(lay, fake, fake, engine.SquashMergeSimple),
		Git:    fake,
		Config: cfg,
		Splog:  splog,
		SaveLayout: func() error {
			te.saved++
			return nil
		},
		SaveLayoutWithBackup: func() error {
			te.saved++
			return nil
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
	return te
}

// buildChainRepo builds the repository and layout used by the slide-out
// tests:
//
//	slide_root
//		child_a
//		child_b
//			child_c
//				child_d
func buildChainRepo(t *testing.T) (*testhelpers.FakeGit, *testEnv) {
	t.Helper()

	fake := testhelpers.NewFakeGit()
	fake.Commit("slide_root", "base")
	fake.CreateBranch("child_a", "slide_root")
	fake.Commit("child_a", "a work")
	fake.CreateBranch("child_b", "slide_root")
	fake.Commit("child_b", "b work")
	fake.CreateBranch("child_c", "child_b")
	fake.Commit("child_c", "c work")
	fake.CreateBranch("child_d", "child_c")
	fake.Commit("child_d", "d work")
	fake.Current = "slide_root"

	env := newTestEnv(t, fake, "slide_root\n\tchild_a\n\tchild_b\n\t\tchild_c\n\t\t\tchild_d\n")
	return fake, env
}

// testDoubleChildRepo builds slide_root → mid → {left, right}
func testDoubleChildRepo(t *testing.T) *testhelpers.FakeGit {
	t.Helper()

	fake := testhelpers.NewFakeGit()
	fake.Commit("slide_root", "base")
	fake.CreateBranch("mid", "slide_root")
	fake.Commit("mid", "mid work")
	fake.CreateBranch("left", "mid")
	fake.Commit("left", "left work")
	fake.CreateBranch("right", "mid")
	fake.Commit("right", "right work")
	fake.Current = "slide_root"
	return fake
}
