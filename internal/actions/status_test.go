package actions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/testhelpers"
)

func TestStatusRendersForest(t *testing.T) {
	t.Parallel()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.SetRemote("master")
	fake.CreateBranch("develop", "master")
	fake.Commit("develop", "develop work")
	fake.CreateBranch("stale", "master")
	fake.Commit("stale", "stale work")
	fake.Commit("master", "hotfix")
	fake.Current = "develop"

	env := newTestEnv(t, fake, "master\n\tdevelop\n\tstale\n")

	err := Status(env.Env, StatusOptions{})
	require.NoError(t, err)

	out := env.output.String()
	require.Contains(t, out, "  master (ahead of origin)")
	require.Contains(t, out, "x-develop *")
	require.Contains(t, out, "x-stale")
}

func TestStatusListCommits(t *testing.T) {
	t.Parallel()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.CreateBranch("feature", "master")
	fake.Commit("feature", "add parser")
	fake.Commit("feature", "add renderer")
	fake.Current = "master"

	env := newTestEnv(t, fake, "master\n\tfeature\n")

	err := Status(env.Env, StatusOptions{ListCommits: true})
	require.NoError(t, err)

	out := env.output.String()
	require.Contains(t, out, "add parser")
	require.Contains(t, out, "add renderer")
	require.Contains(t, out, "o-feature")
}

func TestStatusEmptyLayout(t *testing.T) {
	t.Parallel()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.Current = "master"

	env := newTestEnv(t, fake, "")

	err := Status(env.Env, StatusOptions{})
	require.NoError(t, err)
	require.Contains(t, env.output.String(), "No branches listed in")
}
