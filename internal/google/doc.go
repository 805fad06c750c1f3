// Package google handles OAuth2 authentication against Google APIs.
//
// The OAuth client configuration is read from a credentials.json file
// downloaded from the Google Cloud Console, and the user token is cached
// as JSON on disk. Tokens are refreshed transparently; a refreshed token
// is written back to the cache so the next run starts with it.
//
// A missing or unrefreshable token is a fatal error: callers are
// expected to abort the run and point the operator at `jarvis auth`.
package google
