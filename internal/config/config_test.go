package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[team]
default_assignee = "Roger"

[[team.members]]
name = "Anna"
gid = "1001"
focus = "Google Ads, social media"

[[team.members]]
name = "Max"
gid = "1002"
focus = "Client projects, ad campaigns"

[[team.members]]
name = "Roger"
gid = "1003"
focus = "Operations, technical issues"

[pipeline]
fetch_limit = 5
priority_domains = ["businessanywhere.io"]

[gmail]
credentials_file = "/secrets/credentials.json"
token_file = "/secrets/token.json"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jarvis.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv(EnvGeminiAPIKey, "gemini-key")
	t.Setenv(EnvAsanaToken, "asana-token")
	t.Setenv(EnvAsanaProject, "4242")
}

func TestLoad(t *testing.T) {
	setSecrets(t)

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.Pipeline.FetchLimit)
	assert.True(t, cfg.Pipeline.PriorityBypass)
	assert.True(t, cfg.Pipeline.FilterUnsubscribe)
	assert.Equal(t, []string{"businessanywhere.io"}, cfg.Pipeline.PriorityDomains)
	assert.Len(t, cfg.Team.Members, 3)
	assert.Equal(t, "Roger", cfg.Team.DefaultAssignee)
	assert.Equal(t, "/secrets/token.json", cfg.Gmail.TokenFile)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.Model)

	// Defaults kick in when the file does not list phrases.
	assert.Contains(t, cfg.Pipeline.UnsubscribePhrases, "unsubscribe")
	assert.Len(t, cfg.Pipeline.UnsubscribePhrases, 9)

	require.NoError(t, cfg.Validate())
}

func TestLoadTrimsSecrets(t *testing.T) {
	t.Setenv(EnvGeminiAPIKey, " gemini-key\n")
	t.Setenv(EnvAsanaToken, "asana-token ")
	t.Setenv(EnvAsanaProject, "4242")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
	assert.Equal(t, "asana-token", cfg.AsanaToken)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidateMissingSecrets(t *testing.T) {
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvAsanaToken, "")
	t.Setenv(EnvAsanaProject, "4242")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvGeminiAPIKey)
	assert.Contains(t, err.Error(), EnvAsanaToken)
	assert.NotContains(t, err.Error(), EnvAsanaProject)
}

func TestValidateRoster(t *testing.T) {
	setSecrets(t)

	tests := []struct {
		name        string
		config      string
		errContains string
	}{
		{
			name: "no members",
			config: `
[team]
default_assignee = "Roger"
`,
			errContains: "team.members",
		},
		{
			name: "default not in roster",
			config: `
[team]
default_assignee = "Ghost"

[[team.members]]
name = "Anna"
gid = "1001"
`,
			errContains: `"Ghost" is not in team.members`,
		},
		{
			name: "member without gid",
			config: `
[team]
default_assignee = "Anna"

[[team.members]]
name = "Anna"
`,
			errContains: "name and a gid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.config))
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidateFetchLimit(t *testing.T) {
	setSecrets(t)

	bad := strings.Replace(sampleConfig, "fetch_limit = 5", "fetch_limit = 0", 1)

	cfg, err := Load(writeConfig(t, bad))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch_limit")
}

func TestTeamLookup(t *testing.T) {
	team := TeamConfig{
		Members: []Member{
			{Name: "Anna", GID: "1001"},
			{Name: "Roger", GID: "1003"},
		},
		DefaultAssignee: "Roger",
	}

	m, ok := team.Lookup("Anna")
	assert.True(t, ok)
	assert.Equal(t, "1001", m.GID)

	_, ok = team.Lookup("Nobody")
	assert.False(t, ok)

	assert.Equal(t, "1003", team.Default().GID)
	assert.Equal(t, []string{"1001", "1003"}, team.GIDs())
}
