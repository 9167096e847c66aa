package github

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		owner string
		repo  string
	}{
		{
			name:  "https with .git suffix",
			url:   "https://github.com/acme/widgets.git",
			owner: "acme",
			repo:  "widgets",
		},
		{
			name:  "https without suffix",
			url:   "https://github.com/acme/widgets",
			owner: "acme",
			repo:  "widgets",
		},
		{
			name:  "ssh form",
			url:   "git@github.com:acme/widgets.git",
			owner: "acme",
			repo:  "widgets",
		},
		{
			name:  "trailing whitespace",
			url:   "https://github.com/acme/widgets.git\n",
			owner: "acme",
			repo:  "widgets",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			owner, repo, err := ParseRemoteURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.owner, owner)
			require.Equal(t, tc.repo, repo)
		})
	}
}

func TestParseRemoteURLInvalid(t *testing.T) {
	t.Parallel()

	_, _, err := ParseRemoteURL("nonsense")
	require.Error(t, err)

	_, _, err = ParseRemoteURL("git@github.com:widgets")
	require.Error(t, err)
}
