package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/testhelpers"
)

func buildNavRepo(t *testing.T) (*testhelpers.FakeGit, *testEnv) {
	t.Helper()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.CreateBranch("develop", "master")
	fake.Commit("develop", "develop work")
	fake.CreateBranch("feature", "develop")
	fake.Commit("feature", "feature work")
	fake.CreateBranch("hotfix", "master")
	fake.Commit("hotfix", "hotfix work")
	fake.Current = "develop"

	env := newTestEnv(t, fake, "master\n\tdevelop\n\t\tfeature\n\thotfix\n")
	return fake, env
}

func TestResolveDirection(t *testing.T) {
	t.Parallel()

	_, env := buildNavRepo(t)

	tests := []struct {
		direction string
		want      string
	}{
		{DirectionCurrent, "develop"},
		{DirectionUp, "master"},
		{DirectionDown, "feature"},
		{DirectionFirst, "develop"},
		{DirectionLast, "hotfix"},
		{DirectionNext, "feature"},
		{DirectionPrev, "master"},
		{DirectionRoot, "master"},
	}
	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			got, err := ResolveDirection(env.Env, "", tt.direction)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDirectionErrors(t *testing.T) {
	t.Parallel()

	fake, env := buildNavRepo(t)

	fake.Current = "master"
	_, err := ResolveDirection(env.Env, "", DirectionUp)
	require.Error(t, err)
	_, err = ResolveDirection(env.Env, "", DirectionPrev)
	require.Error(t, err)

	fake.Current = "feature"
	_, err = ResolveDirection(env.Env, "", DirectionDown)
	require.Error(t, err)

	fake.Current = "hotfix"
	_, err = ResolveDirection(env.Env, "", DirectionNext)
	require.Error(t, err)
}

func TestResolveDirectionDownPicksAmongChildren(t *testing.T) {
	t.Parallel()

	fake, env := buildNavRepo(t)
	fake.Current = "master"
	env.SelectBranchFunc = func(_ string, options []string) (string, error) {
		require.Equal(t, []string{"develop", "hotfix"}, options)
		return "hotfix", nil
	}

	got, err := ResolveDirection(env.Env, "", DirectionDown)
	require.NoError(t, err)
	require.Equal(t, "hotfix", got)
}

func TestResolveDirectionUnmanagedBranch(t *testing.T) {
	t.Parallel()

	fake, env := buildNavRepo(t)
	fake.CreateBranch("loose", "master")
	fake.Current = "loose"

	_, err := ResolveDirection(env.Env, "", DirectionUp)
	var notManaged *trelliserrors.NotManagedError
	require.ErrorAs(t, err, &notManaged)
}

func TestGoChecksOut(t *testing.T) {
	t.Parallel()

	fake, env := buildNavRepo(t)

	err := Go(context.Background(), env.Env, DirectionDown)
	require.NoError(t, err)
	require.Equal(t, "feature", fake.Current)
	require.Contains(t, fake.Operations, "checkout feature")
}

func TestValidateDirection(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateDirection("up"))
	require.NoError(t, ValidateDirection("root"))
	require.Error(t, ValidateDirection("sideways"))
}
