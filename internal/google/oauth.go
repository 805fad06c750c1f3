package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// OOB is the out-of-band redirect for installed applications: Google
// shows the authorization code for the user to paste into the terminal.
const OOB = "urn:ietf:wg:oauth:2.0:oob"

// LoadOAuthConfig reads the OAuth client configuration from a
// credentials.json file downloaded from the Google Cloud Console.
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth credentials %s: %w", credentialsFile, err)
	}

	conf, err := google.ConfigFromJSON(data, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth credentials %s: %w", credentialsFile, err)
	}
	conf.RedirectURL = OOB

	return conf, nil
}

// HasToken reports whether a token file exists at the given path.
func HasToken(tokenFile string) bool {
	_, err := os.Stat(tokenFile)
	return err == nil
}

// LoadToken reads a cached OAuth token from disk.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token at %s: %w", tokenFile, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", tokenFile, err)
	}

	return &tok, nil
}

// SaveToken writes an OAuth token to disk, readable only by the owner.
func SaveToken(tokenFile string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(tokenFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", tokenFile, err)
	}
	return nil
}

// Exchange trades an authorization code for a token and persists it.
func Exchange(ctx context.Context, conf *oauth2.Config, authCode, tokenFile string) error {
	tok, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return SaveToken(tokenFile, tok)
}

// savingTokenSource persists refreshed tokens back to the token file so
// that subsequent runs pick up the new access token.
type savingTokenSource struct {
	mu        sync.Mutex
	src       oauth2.TokenSource
	tokenFile string
	last      string // last persisted access token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		// Best effort: a failed write only costs a refresh next run.
		if err := SaveToken(s.tokenFile, tok); err == nil {
			s.last = tok.AccessToken
		}
	}
	return tok, nil
}

// GetTokenSource returns a token source backed by the cached token.
// The token is validated (and refreshed if necessary) before returning,
// so an expired token without a refresh path fails here rather than in
// the middle of a run.
func GetTokenSource(ctx context.Context, credentialsFile, tokenFile string) (oauth2.TokenSource, error) {
	conf, err := LoadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	tok, err := LoadToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w. Run `jarvis auth` to authenticate", err)
	}

	ts := &savingTokenSource{
		src:       conf.TokenSource(ctx, tok),
		tokenFile: tokenFile,
		last:      tok.AccessToken,
	}

	// Validate the token
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w. Run `jarvis auth` to re-authenticate", err)
	}

	return ts, nil
}

// GetHTTPClient returns an HTTP client configured with OAuth2
// authentication for the cached token.
func GetHTTPClient(ctx context.Context, credentialsFile, tokenFile string) (*http.Client, error) {
	ts, err := GetTokenSource(ctx, credentialsFile, tokenFile)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}
