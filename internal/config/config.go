package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables holding secrets. These are never written to the
// config file.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAsanaToken   = "ASANA_ACCESS_TOKEN"
	EnvAsanaProject = "ASANA_PROJECT_GID"
)

// Member is one entry of the team roster. Focus is free text used in the
// classification prompt to describe what this person should be assigned.
type Member struct {
	Name  string `toml:"name"`
	GID   string `toml:"gid"`
	Focus string `toml:"focus"`
}

// TeamConfig is the static roster: the name→GID mapping plus the member
// that receives tasks when classification is ambiguous or fails.
type TeamConfig struct {
	Members         []Member `toml:"members"`
	DefaultAssignee string   `toml:"default_assignee"`
}

// Lookup returns the member with the given name.
func (t TeamConfig) Lookup(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Default returns the default assignee's roster entry.
func (t TeamConfig) Default() Member {
	m, _ := t.Lookup(t.DefaultAssignee)
	return m
}

// GIDs returns the Asana GIDs of all roster members, in roster order.
func (t TeamConfig) GIDs() []string {
	gids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		gids = append(gids, m.GID)
	}
	return gids
}

// PipelineConfig controls the orchestrator branches.
type PipelineConfig struct {
	FetchLimit int64 `toml:"fetch_limit"`

	// PriorityBypass skips classification for priority-domain senders
	// and creates one task with the whole roster as followers.
	PriorityBypass  bool     `toml:"priority_bypass"`
	PriorityDomains []string `toml:"priority_domains"`

	// FilterUnsubscribe marks marketing mail (bodies containing an
	// opt-out phrase) as read without classifying it.
	FilterUnsubscribe  bool     `toml:"filter_unsubscribe"`
	UnsubscribePhrases []string `toml:"unsubscribe_phrases"`
}

// GmailConfig locates the locally cached OAuth client and token files.
type GmailConfig struct {
	CredentialsFile string `toml:"credentials_file"`
	TokenFile       string `toml:"token_file"`
}

// GeminiConfig selects the completion model.
type GeminiConfig struct {
	Model string `toml:"model"`
}

// Config is the root configuration for jarvis.
type Config struct {
	Team     TeamConfig     `toml:"team"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Gmail    GmailConfig    `toml:"gmail"`
	Gemini   GeminiConfig   `toml:"gemini"`

	// Secrets, populated from the environment by Load.
	GeminiAPIKey    string `toml:"-"`
	AsanaToken      string `toml:"-"`
	AsanaProjectGID string `toml:"-"`
}

// defaultUnsubscribePhrases are the opt-out markers that identify
// marketing mail. Matching is case-insensitive substring.
var defaultUnsubscribePhrases = []string{
	"unsubscribe",
	"opt-out",
	"opt out",
	"remove me",
	"manage preferences",
	"email preferences",
	"subscription preferences",
	"click here to stop",
	"no longer wish to receive",
}

// Load reads the TOML file at path, fills defaults and pulls secrets
// from the environment. It does not validate; call Validate before use.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Pipeline: PipelineConfig{
			FetchLimit:        10,
			PriorityBypass:    true,
			FilterUnsubscribe: true,
		},
		Gmail: GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		Gemini: GeminiConfig{
			Model: "gemini-3-flash-preview",
		},
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if len(cfg.Pipeline.UnsubscribePhrases) == 0 {
		cfg.Pipeline.UnsubscribePhrases = defaultUnsubscribePhrases
	}

	// Stray whitespace in copied secrets causes hard-to-debug header
	// errors, so trim on the way in.
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv(EnvGeminiAPIKey))
	cfg.AsanaToken = strings.TrimSpace(os.Getenv(EnvAsanaToken))
	cfg.AsanaProjectGID = strings.TrimSpace(os.Getenv(EnvAsanaProject))

	return cfg, nil
}

// Validate checks that everything required for a run is present and
// returns a single error naming all missing values.
func (c *Config) Validate() error {
	var missing []string

	if c.GeminiAPIKey == "" {
		missing = append(missing, EnvGeminiAPIKey+" (environment)")
	}
	if c.AsanaToken == "" {
		missing = append(missing, EnvAsanaToken+" (environment)")
	}
	if c.AsanaProjectGID == "" {
		missing = append(missing, EnvAsanaProject+" (environment)")
	}
	if len(c.Team.Members) == 0 {
		missing = append(missing, "team.members")
	}
	if c.Team.DefaultAssignee == "" {
		missing = append(missing, "team.default_assignee")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}

	if _, ok := c.Team.Lookup(c.Team.DefaultAssignee); !ok {
		return fmt.Errorf("team.default_assignee %q is not in team.members", c.Team.DefaultAssignee)
	}
	for _, m := range c.Team.Members {
		if m.Name == "" || m.GID == "" {
			return fmt.Errorf("every team member needs a name and a gid")
		}
	}
	if c.Pipeline.FetchLimit <= 0 {
		return fmt.Errorf("pipeline.fetch_limit must be positive, got %d", c.Pipeline.FetchLimit)
	}

	return nil
}
