package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		want   string
	}{
		{"ssh shorthand", "git@github.com:octocat/hello.git", "octocat/hello"},
		{"https with .git", "https://github.com/octocat/hello.git", "octocat/hello"},
		{"https without .git", "https://github.com/octocat/hello", "octocat/hello"},
		{"full ssh url", "ssh://git@github.com/octocat/hello", "octocat/hello"},
		{"trailing newline from git output", "git@github.com:octocat/hello.git\n", "octocat/hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := parseRemoteURL(tt.remote)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slug)
		})
	}

	t.Run("non-github remotes are rejected", func(t *testing.T) {
		_, err := parseRemoteURL("git@gitlab.com:octocat/hello.git")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a GitHub URL")
	})

	t.Run("extra path segments are rejected", func(t *testing.T) {
		_, err := parseRemoteURL("https://github.com/octocat/hello/extra")
		assert.Error(t, err)
	})
}
