package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsString(t *testing.T) {
	t.Parallel()

	require.True(t, ContainsString([]string{"a", "b"}, "b"))
	require.False(t, ContainsString([]string{"a", "b"}, "c"))
	require.False(t, ContainsString(nil, "a"))
}

func TestIsInteractiveRespectsEnv(t *testing.T) {
	t.Setenv("TRELLIS_NON_INTERACTIVE", "1")
	require.False(t, IsInteractive())
}
