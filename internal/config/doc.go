// Package config loads the jarvis configuration.
//
// Non-secret settings (team roster, priority domains, pipeline toggles,
// credential file paths) live in a TOML file. Secrets are read from the
// environment: GEMINI_API_KEY, ASANA_ACCESS_TOKEN and ASANA_PROJECT_GID.
// Validate reports every missing required value at once so a broken
// deployment fails fast, before any network activity.
package config
