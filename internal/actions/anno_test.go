package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/internal/github"
	"trellis.dev/trellis/testhelpers"
)

func buildAnnoRepo(t *testing.T) (*testhelpers.FakeGit, *testEnv) {
	t.Helper()

	fake := testhelpers.NewFakeGit()
	fake.Commit("master", "initial")
	fake.CreateBranch("feature", "master")
	fake.Commit("feature", "feature work")
	fake.Current = "feature"

	env := newTestEnv(t, fake, "master\n\tfeature\n")
	return fake, env
}

func TestAnnotateSetAndPrint(t *testing.T) {
	t.Parallel()

	_, env := buildAnnoRepo(t)

	err := Annotate(env.Env, AnnoOptions{Words: []string{"work", "in", "progress"}})
	require.NoError(t, err)
	require.Equal(t, "work in progress", env.Layout.Get("feature").Annotation)
	require.Positive(t, env.saved)

	err = Annotate(env.Env, AnnoOptions{})
	require.NoError(t, err)
	require.Contains(t, env.output.String(), "work in progress")
}

func TestAnnotateClear(t *testing.T) {
	t.Parallel()

	_, env := buildAnnoRepo(t)
	env.Layout.Get("feature").Annotation = "stale note"

	err := Annotate(env.Env, AnnoOptions{Clear: true})
	require.NoError(t, err)
	require.Empty(t, env.Layout.Get("feature").Annotation)
}

func TestAnnotateTargetBranch(t *testing.T) {
	t.Parallel()

	_, env := buildAnnoRepo(t)

	err := Annotate(env.Env, AnnoOptions{Branch: "master", Words: []string{"mainline"}})
	require.NoError(t, err)
	require.Equal(t, "mainline", env.Layout.Get("master").Annotation)
}

type fakePRLister struct {
	prs []github.PullRequestInfo
	err error
}

func (f *fakePRLister) ListOpenPRs(context.Context) ([]github.PullRequestInfo, error) {
	return f.prs, f.err
}

func TestSyncGitHubPRsAnnotates(t *testing.T) {
	t.Parallel()

	_, env := buildAnnoRepo(t)
	env.Layout.Get("feature").Annotation = "old text push=no"

	lister := &fakePRLister{prs: []github.PullRequestInfo{
		{Number: 42, Head: "feature", Base: "master", Title: "Feature work"},
		{Number: 77, Head: "unrelated", Base: "master", Title: "Elsewhere"},
	}}

	err := SyncGitHubPRs(context.Background(), env.Env, lister)
	require.NoError(t, err)
	// qualifiers survive, the visible text is replaced
	require.Equal(t, "PR #42 push=no", env.Layout.Get("feature").Annotation)
	require.Positive(t, env.saved)
}

func TestSyncGitHubPRsNoMatches(t *testing.T) {
	t.Parallel()

	_, env := buildAnnoRepo(t)

	err := SyncGitHubPRs(context.Background(), env.Env, &fakePRLister{})
	require.NoError(t, err)
	require.Zero(t, env.saved)
	require.Contains(t, env.output.String(), "No managed branch heads an open pull request.")
}
