package actions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/testhelpers"
)

func TestDiscoverBuildsForestFromHistory(t *testing.T) {
	t.Parallel()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.CreateBranch("develop", "master")
	fake.Commit("develop", "develop work")
	fake.CreateBranch("feature", "develop")
	fake.Commit("feature", "feature work")
	fake.CreateBranch("fixup", "feature")
	fake.Commit("fixup", "fixup work")
	fake.Commit("standalone", "unrelated")
	fake.Current = "master"

	env := newTestEnv(t, fake, "")

	err := Discover(env.Env)
	require.NoError(t, err)

	require.True(t, env.Layout.IsRoot("master"))
	require.True(t, env.Layout.IsRoot("develop"))
	require.Equal(t, "develop", env.Layout.Get("feature").Parent)
	require.Equal(t, "feature", env.Layout.Get("fixup").Parent)
	require.True(t, env.Layout.IsRoot("standalone"))
	require.Positive(t, env.saved)
}

func TestDiscoverEqualTipsStayAcyclic(t *testing.T) {
	t.Parallel()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.CreateBranch("develop", "master")
	fake.Commit("develop", "develop work")
	fake.CreateBranch("alpha", "develop")
	fake.CreateBranch("beta", "develop")
	fake.Current = "master"

	env := newTestEnv(t, fake, "")

	err := Discover(env.Env)
	require.NoError(t, err)
	require.NoError(t, env.Layout.CheckInvariants())

	// both fresh branches end up under the stack, never under each other
	// both ways
	alphaParent := env.Layout.Get("alpha").Parent
	betaParent := env.Layout.Get("beta").Parent
	require.False(t, alphaParent == "beta" && betaParent == "alpha")
	require.Contains(t, []string{"develop", "alpha"}, alphaParent)
}

func TestDiscoverDeclinedLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.Current = "master"

	env := newTestEnv(t, fake, "")
	env.ConfirmFunc = func(string, bool) (bool, error) {
		return false, nil
	}

	err := Discover(env.Env)
	require.NoError(t, err)
	require.Zero(t, env.saved)
	// the in-memory layout still shows the discovered forest
	require.True(t, env.Layout.Has("master"))
}
