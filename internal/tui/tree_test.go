package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trellis.dev/trellis/internal/engine"
	"trellis.dev/trellis/internal/layout"
)

func buildForest(t *testing.T, text string) *layout.Layout {
	t.Helper()
	lay, err := layout.Parse(text)
	require.NoError(t, err)
	return lay
}

func TestRenderForestASCII(t *testing.T) {
	lay := buildForest(t, "master\n\tdevelop\n\t\tfeature\n\t\thotfix\n")

	lines := map[string]TreeLine{
		"master":  {Edge: engine.EdgeNone},
		"develop": {Edge: engine.EdgeGreen, IsCurrent: true},
		"feature": {Edge: engine.EdgeRed, RemoteMarker: "untracked"},
		"hotfix":  {Edge: engine.EdgeGrey},
	}

	out := RenderForest(lay, lines, RenderOptions{ASCII: true})

	expected := strings.Join([]string{
		"  master",
		"  |",
		"  o-develop *",
		"  | |",
		"  | x-feature (untracked)",
		"  | |",
		"  | m-hotfix",
		"",
	}, "\n")
	require.Equal(t, expected, out)
}

func TestRenderForestMultipleRoots(t *testing.T) {
	lay := buildForest(t, "master\nrelease\n")

	lines := map[string]TreeLine{
		"master":  {Edge: engine.EdgeNone},
		"release": {Edge: engine.EdgeNone},
	}

	out := RenderForest(lay, lines, RenderOptions{ASCII: true})
	require.Equal(t, "  master\n\n  release\n", out)
}

func TestRenderForestListCommits(t *testing.T) {
	lay := buildForest(t, "master\n\tfeature\n")

	lines := map[string]TreeLine{
		"master": {Edge: engine.EdgeNone},
		"feature": {
			Edge:    engine.EdgeGreen,
			Commits: []string{"first change", "second change"},
		},
	}

	out := RenderForest(lay, lines, RenderOptions{ASCII: true, ListCommits: true})

	expected := strings.Join([]string{
		"  master",
		"  |",
		"  | first change",
		"  | second change",
		"  o-feature",
		"",
	}, "\n")
	require.Equal(t, expected, out)
}

func TestRenderForestYellowForkPointHint(t *testing.T) {
	lay := buildForest(t, "master\n\tfeature\n")

	lines := map[string]TreeLine{
		"master": {Edge: engine.EdgeNone},
		"feature": {
			Edge:          engine.EdgeYellow,
			Commits:       []string{"tweak"},
			ForkPointHint: "fork point c002 seems off",
		},
	}

	out := RenderForest(lay, lines, RenderOptions{ASCII: true, ListCommits: true})
	require.Contains(t, out, "  ?-feature")
	require.Contains(t, out, "  | fork point c002 seems off")
}

func TestRenderForestAnnotations(t *testing.T) {
	lay := buildForest(t, "master\n\tfeature PR #42 rebase=no\n")

	lines := map[string]TreeLine{
		"master":  {Edge: engine.EdgeNone},
		"feature": {Edge: engine.EdgeGreen, Annotation: lay.Get("feature").Annotation},
	}

	out := RenderForest(lay, lines, RenderOptions{ASCII: true})
	require.Contains(t, out, "o-feature  PR #42 rebase=no")
}

func TestRenderBranchList(t *testing.T) {
	lines := map[string]TreeLine{
		"develop": {IsCurrent: true},
	}

	out := RenderBranchList([]string{"develop", "feature"}, lines, RenderOptions{ASCII: true})
	require.Equal(t, "  develop *\n  feature\n", out)
}
