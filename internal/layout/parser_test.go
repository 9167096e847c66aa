package layout_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	trelliserrors "trellis.dev/trellis/internal/errors"
	"trellis.dev/trellis/internal/layout"
)

func TestParse(t *testing.T) {
	t.Run("parses a simple forest", func(t *testing.T) {
		l, err := layout.Parse("develop\n\tfeature/allow-ownership-link\n\t\tbuild-chain\n\tcall-ws\nmaster\n\thotfix/add-trigger\n")
		require.NoError(t, err)

		require.Equal(t, []string{"develop", "master"}, l.Roots)
		require.Equal(t, []string{"feature/allow-ownership-link", "call-ws"}, l.Children("develop"))
		require.Equal(t, []string{"build-chain"}, l.Children("feature/allow-ownership-link"))
		require.Equal(t, []string{"hotfix/add-trigger"}, l.Children("master"))
		require.Equal(t, "develop", l.Parent("call-ws"))
		require.Equal(t, "feature/allow-ownership-link", l.Parent("build-chain"))
		require.NoError(t, l.CheckInvariants())
	})

	t.Run("empty input yields empty layout", func(t *testing.T) {
		l, err := layout.Parse("")
		require.NoError(t, err)
		require.Empty(t, l.Roots)
		require.Empty(t, l.Branches)
	})

	t.Run("keeps annotations verbatim", func(t *testing.T) {
		l, err := layout.Parse("develop\n\tcall-ws PR #42  rebase=no push=no\n")
		require.NoError(t, err)

		b := l.Get("call-ws")
		require.NotNil(t, b)
		require.Equal(t, "PR #42  rebase=no push=no", b.Annotation)
		require.Equal(t, "PR #42", b.AnnotationText())
		require.True(t, b.Qualifiers().NoRebase)
		require.True(t, b.Qualifiers().NoPush)
		require.False(t, b.Qualifiers().NoSlideOut)
	})

	t.Run("splits name and annotation on the first space only", func(t *testing.T) {
		l, err := layout.Parse("master  double space annotation\n")
		require.NoError(t, err)
		require.Equal(t, " double space annotation", l.Get("master").Annotation)
	})

	t.Run("skips blank and whitespace-only lines", func(t *testing.T) {
		l, err := layout.Parse("develop\n\n\t \ncall-ws\n")
		require.NoError(t, err)
		require.Equal(t, []string{"develop", "call-ws"}, l.Roots)
	})

	t.Run("accepts space indentation", func(t *testing.T) {
		l, err := layout.Parse("develop\n  call-ws\n    build-chain\n")
		require.NoError(t, err)
		require.Equal(t, []string{"call-ws"}, l.Children("develop"))
		require.Equal(t, []string{"build-chain"}, l.Children("call-ws"))
	})

	t.Run("rejects indent that is not a multiple of the unit", func(t *testing.T) {
		_, err := layout.Parse("develop\n  call-ws\n   build-chain\n")
		require.Error(t, err)
		require.ErrorIs(t, err, trelliserrors.ErrLayoutParse)

		var parseErr *trelliserrors.LayoutParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, 3, parseErr.Line)
		require.Contains(t, parseErr.Reason, `invalid indent "   ", expected a multiple of "  "`)
	})

	t.Run("rejects tab indent under a space unit", func(t *testing.T) {
		_, err := layout.Parse("develop\n  call-ws\n\t\tbuild-chain\n")
		require.Error(t, err)

		var parseErr *trelliserrors.LayoutParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, 3, parseErr.Line)
		require.Contains(t, parseErr.Reason, "invalid indent")
	})

	t.Run("rejects skipping a nesting level", func(t *testing.T) {
		_, err := layout.Parse("develop\n\t\tbuild-chain\n")
		require.Error(t, err)

		var parseErr *trelliserrors.LayoutParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, 2, parseErr.Line)
		require.Equal(t, "too much indent (level 2, expected at most 1) for branch build-chain", parseErr.Reason)
	})

	t.Run("rejects an indented first line", func(t *testing.T) {
		_, err := layout.Parse("\tdevelop\n")
		require.Error(t, err)

		var parseErr *trelliserrors.LayoutParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, 1, parseErr.Line)
		require.Equal(t, "too much indent (level 1, expected at most 0) for branch develop", parseErr.Reason)
	})

	t.Run("rejects duplicate branches with the physical line number", func(t *testing.T) {
		_, err := layout.Parse("master\n\tdevelop\n\t\n\ndevelop")
		require.Error(t, err)
		require.ErrorIs(t, err, trelliserrors.ErrLayoutParse)

		var parseErr *trelliserrors.LayoutParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, 5, parseErr.Line)
		require.Equal(t, "branch develop re-appears in the tree definition", parseErr.Reason)
	})

	t.Run("rejects invalid branch names", func(t *testing.T) {
		_, err := layout.Parse("ok\n\t-bad\n")
		require.Error(t, err)

		var parseErr *trelliserrors.LayoutParseError
		require.True(t, errors.As(err, &parseErr))
		require.Equal(t, 2, parseErr.Line)
		require.Contains(t, parseErr.Reason, `invalid branch name "-bad"`)
	})

	t.Run("dedent reopens the shallower ancestor", func(t *testing.T) {
		l, err := layout.Parse("a\n\tb\n\t\tc\n\td\nx\n\ty\n")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "x"}, l.Roots)
		require.Equal(t, []string{"b", "d"}, l.Children("a"))
		require.Equal(t, []string{"c"}, l.Children("b"))
		require.Equal(t, []string{"y"}, l.Children("x"))
	})
}

func TestRender(t *testing.T) {
	t.Run("round-trips byte for byte", func(t *testing.T) {
		inputs := []string{
			"develop\n\tallow-ownership-link rebase=no\n\t\tbuild-chain\n\tcall-ws PR #124\nmaster\n\thotfix/add-trigger\n",
			"develop\n  call-ws\n    build-chain\n  drop-constraint push=no\n",
			"main\n",
			"develop\n\tcall-ws  preserved  spacing\n",
		}
		for _, input := range inputs {
			l, err := layout.Parse(input)
			require.NoError(t, err)
			require.Equal(t, input, l.Render())
		}
	})

	t.Run("renders built layouts with tab indent", func(t *testing.T) {
		l := layout.New()
		require.NoError(t, l.AddRoot("develop"))
		require.NoError(t, l.AddUnder("call-ws", "develop"))
		require.NoError(t, l.AddUnder("build-chain", "call-ws"))
		require.Equal(t, "develop\n\tcall-ws\n\t\tbuild-chain\n", l.Render())
	})

	t.Run("drops blank lines from the source", func(t *testing.T) {
		l, err := layout.Parse("develop\n\n\tcall-ws\n\n")
		require.NoError(t, err)
		require.Equal(t, "develop\n\tcall-ws\n", l.Render())
	})
}
