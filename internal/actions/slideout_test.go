package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	trelliserrors "trellis.dev/trellis/internal/errors"
)

func TestSlideOutReattachesAndRebasesChildren(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)
	cTip, err := fake.Revision("child_c")
	require.NoError(t, err)

	err = SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"child_c"}})
	require.NoError(t, err)

	require.False(t, env.Layout.Has("child_c"))
	require.Equal(t, "child_b", env.Layout.Get("child_d").Parent)
	require.Equal(t, []string{"child_d"}, env.Layout.Get("child_b").Children)

	require.Contains(t, fake.Operations, "rebase child_d onto child_b")
	require.Positive(t, env.saved)

	// child_d was replayed on top of child_b; the slid-out commit is gone
	// from its history
	onB, err := fake.IsAncestor("child_b", "child_d")
	require.NoError(t, err)
	require.True(t, onB)
	onC, err := fake.IsAncestor(cTip, "child_d")
	require.NoError(t, err)
	require.False(t, onC)
}

func TestSlideOutChainOfTwo(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"child_b", "child_c"}})
	require.NoError(t, err)

	require.False(t, env.Layout.Has("child_b"))
	require.False(t, env.Layout.Has("child_c"))
	require.Equal(t, "slide_root", env.Layout.Get("child_d").Parent)
	require.Contains(t, fake.Operations, "rebase child_d onto slide_root")
}

func TestSlideOutCurrentBranchByDefault(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)
	fake.Current = "child_a"

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{})
	require.NoError(t, err)
	require.False(t, env.Layout.Has("child_a"))
}

func TestSlideOutRejectsRoot(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"slide_root"}})
	require.Error(t, err)
	var viol *trelliserrors.InvariantViolationError
	require.ErrorAs(t, err, &viol)
	require.Empty(t, fake.Operations, "no git command may run on a rejected slide-out")
	require.True(t, env.Layout.Has("slide_root"))
}

func TestSlideOutRejectsBrokenChain(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"child_a", "child_c"}})
	require.Error(t, err)
	var viol *trelliserrors.InvariantViolationError
	require.ErrorAs(t, err, &viol)
	require.Empty(t, fake.Operations)
	require.True(t, env.Layout.Has("child_a"))
	require.True(t, env.Layout.Has("child_c"))
}

func TestSlideOutRejectsUnmanagedBranch(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)
	fake.CreateBranch("loose", "slide_root")

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"loose"}})
	var notManaged *trelliserrors.NotManagedError
	require.ErrorAs(t, err, &notManaged)
	require.Empty(t, fake.Operations)
}

func TestSlideOutDeleteChecksOutParentFirst(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)
	fake.Current = "child_c"

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"child_c"}, Delete: true})
	require.NoError(t, err)

	require.Contains(t, fake.Operations, "checkout child_b")
	require.Contains(t, fake.Operations, "delete child_c")
	require.False(t, fake.BranchExists("child_c"))
}

func TestSlideOutDownForkPointRequiresSingleChild(t *testing.T) {
	t.Parallel()

	fake := testDoubleChildRepo(t)
	env := newTestEnv(t, fake, "slide_root\n\tmid\n\t\tleft\n\t\tright\n")

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"mid"}, DownForkPoint: "slide_root"})
	require.Error(t, err)
	require.Empty(t, fake.Operations)
}

func TestSlideOutThenAddRestoresManagement(t *testing.T) {
	t.Parallel()

	fake, env := buildChainRepo(t)

	err := SlideOut(context.Background(), env.Env, SlideOutOptions{Branches: []string{"child_c"}})
	require.NoError(t, err)
	require.False(t, env.Layout.Has("child_c"))

	// the local branch survives a plain slide-out, so it can be re-added
	require.True(t, fake.BranchExists("child_c"))

	err = Add(context.Background(), env.Env, AddOptions{Name: "child_c", Onto: "child_b"})
	require.NoError(t, err)

	require.True(t, env.Layout.Has("child_c"))
	require.Equal(t, "child_b", env.Layout.Get("child_c").Parent)
	require.ElementsMatch(t, []string{"child_d", "child_c"}, env.Layout.Get("child_b").Children)
	require.ElementsMatch(t,
		[]string{"slide_root", "child_a", "child_b", "child_c", "child_d"},
		env.Layout.Names())
}
