package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/internal/engine"
	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/layout"
	"trellis.dev/trellis/testhelpers"
)

// buildLayout parses a layout text, failing the test on malformed input
func buildLayout(t *testing.T, text string) *layout.Layout {
	t.Helper()
	l, err := layout.Parse(text)
	require.NoError(t, err)
	return l
}

func TestInferForkPoint(t *testing.T) {
	t.Run("finds the commit where unique history begins", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		forkPoint, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m2, forkPoint)
	})

	t.Run("is idempotent between repository mutations", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		first, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		second, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("excludes the branch's own reflog and counterpart", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")
		// Pushing develop must not drag its fork point up to its own tip
		fake.SetRemote("develop")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		forkPoint, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m2, forkPoint)
	})

	t.Run("fails when no other branch shares history", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("orphan", "o1")
		fake.Commit("orphan", "o2")

		eng := engine.New(buildLayout(t, "orphan\n"), fake, fake, engine.SquashMergeSimple)

		_, err := eng.InferForkPoint("orphan")
		require.ErrorIs(t, err, trelliserrors.ErrForkPointNotFound)
	})

	t.Run("caches are dropped by InvalidateCaches", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		forkPoint, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m2, forkPoint)

		// The parent moves and develop is rebased on top of it
		m3 := fake.Commit("master", "m3")
		_, err = fake.Rebase(nil, "develop", "master", m2)
		require.NoError(t, err)

		// Without invalidation the stale answer survives; after it, the new
		// fork point is the parent's new tip
		stale, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, forkPoint, stale)

		eng.InvalidateCaches()
		fresh, err := eng.InferForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m3, fresh)
	})
}

func TestForkPointOverrides(t *testing.T) {
	t.Run("a valid override wins over inference", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		m1 := fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		require.NoError(t, eng.SetForkPointOverride("develop", m1))
		forkPoint, err := eng.EffectiveForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m1, forkPoint)
	})

	t.Run("setting an override to a non-ancestor is rejected", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")
		m3 := fake.Commit("master", "m3")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		require.Error(t, eng.SetForkPointOverride("develop", m3))
	})

	t.Run("a stale override falls back to inference with a warning", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		d1 := fake.Commit("develop", "d1")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)
		var warnings []string
		eng.SetWarnFunc(func(format string, args ...interface{}) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		})

		require.NoError(t, eng.SetForkPointOverride("develop", d1))

		// develop moves away so d1 is no longer an ancestor of its tip
		fake.MoveBranch("develop", m2)
		fake.Commit("develop", "d1-rewritten")
		eng.InvalidateCaches()

		forkPoint, err := eng.EffectiveForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m2, forkPoint)
		require.NotEmpty(t, warnings)
	})

	t.Run("unset override restores inference", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		m1 := fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		require.NoError(t, eng.SetForkPointOverride("develop", m1))
		require.NoError(t, eng.UnsetForkPointOverride("develop"))

		forkPoint, err := eng.EffectiveForkPoint("develop")
		require.NoError(t, err)
		require.Equal(t, m2, forkPoint)
	})
}

func TestIsMergedToParent(t *testing.T) {
	t.Run("none mode detects strict merges only", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")
		fake.MergeCommit("master", "develop")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeNone)

		merged, err := eng.IsMergedToParent("develop", "master")
		require.NoError(t, err)
		require.True(t, merged)
	})

	t.Run("answers are cached per branch and parent pair", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "d1")
		fake.CreateBranch("other", m2)
		fake.Commit("other", "o1")
		fake.MergeCommit("master", "develop")

		eng := engine.New(buildLayout(t, "master\n\tdevelop\n"), fake, fake, engine.SquashMergeSimple)

		merged, err := eng.IsMergedToParent("develop", "master")
		require.NoError(t, err)
		require.True(t, merged)

		// The same branch against a different parent must not reuse the
		// cached answer for the first one
		merged, err = eng.IsMergedToParent("develop", "other")
		require.NoError(t, err)
		require.False(t, merged)
	})

	t.Run("none mode misses squash merges that simple catches", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		d1 := fake.Commit("develop", "d1")
		// A squashed equivalent of develop lands on master: same tree, new commit
		squash := fake.Commit("master", "squash of develop")
		tree, err := fake.TreeHash(d1)
		require.NoError(t, err)
		fake.SetTree(squash, tree)

		layoutText := "master\n\tdevelop\n"

		engNone := engine.New(buildLayout(t, layoutText), fake, fake, engine.SquashMergeNone)
		merged, err := engNone.IsMergedToParent("develop", "master")
		require.NoError(t, err)
		require.False(t, merged)

		engSimple := engine.New(buildLayout(t, layoutText), fake, fake, engine.SquashMergeSimple)
		merged, err = engSimple.IsMergedToParent("develop", "master")
		require.NoError(t, err)
		require.True(t, merged)
	})

	t.Run("exact mode catches interleaved history that simple misses", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.Commit("master", "m1")
		m2 := fake.Commit("master", "m2")
		fake.CreateBranch("develop", m2)
		fake.Commit("develop", "a")
		fake.Commit("develop", "b")
		// The squashed patch lands on master with an unrelated commit on top,
		// so no master commit's tree matches develop's tip tree
		squash := fake.Commit("master", "develop squashed")
		fake.SetPatchID(squash, "patch:a+b")
		fake.Commit("master", "unrelated follow-up")

		layoutText := "master\n\tdevelop\n"

		engSimple := engine.New(buildLayout(t, layoutText), fake, fake, engine.SquashMergeSimple)
		merged, err := engSimple.IsMergedToParent("develop", "master")
		require.NoError(t, err)
		require.False(t, merged)

		engExact := engine.New(buildLayout(t, layoutText), fake, fake, engine.SquashMergeExact)
		merged, err = engExact.IsMergedToParent("develop", "master")
		require.NoError(t, err)
		require.True(t, merged)
	})
}
