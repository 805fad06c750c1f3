// Package cmd implements the command-line interface for jarvis.
//
// This package provides the following commands:
//   - process: Fetch unread Gmail messages, evaluate them with Gemini and
//     create Asana tasks for the actionable ones
//   - auth: Run the one-time Google OAuth flow and store the token file
//   - version: Display version information
//
// The process command is the default command when no subcommand is specified.
package cmd
