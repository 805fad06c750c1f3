// Package logging provides structured logging utilities for the jarvis
// application.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard
// library's slog package.
//
// Sender addresses are PII: log the domain (low cardinality) or the
// anonymized hash, never the raw address.
package logging
