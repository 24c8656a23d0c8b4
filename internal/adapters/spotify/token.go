package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"resonate/internal/core/ports"
)

const defaultTokenURL = "https://accounts.spotify.com/api/token"

// tokenLifetime is shorter than the advertised 3600s so the credential is
// refreshed before it actually lapses.
const tokenLifetime = 3300 * time.Second

// TokenSource holds the single process-wide client-credentials token and
// refreshes it lazily on expiry. Concurrent callers observing an expired
// token may each run a redundant exchange; the exchange is idempotent, so
// last write wins.
type TokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time

	mu        sync.RWMutex
	value     string
	expiresAt time.Time
}

// TokenOption configures a TokenSource.
type TokenOption func(*TokenSource)

// WithTokenURL overrides the token endpoint, for tests.
func WithTokenURL(u string) TokenOption {
	return func(ts *TokenSource) { ts.tokenURL = u }
}

// WithTokenHTTPClient overrides the HTTP client.
func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(ts *TokenSource) { ts.httpClient = c }
}

// WithTokenClock injects the time source.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(ts *TokenSource) { ts.now = now }
}

// NewTokenSource constructs a TokenSource for the given app credentials.
func NewTokenSource(clientID, clientSecret string, opts ...TokenOption) *TokenSource {
	ts := &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		httpClient:   http.DefaultClient,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Token returns the cached bearer credential, exchanging fresh credentials
// when it has expired.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.RLock()
	value, expiresAt := ts.value, ts.expiresAt
	ts.mu.RUnlock()

	if value != "" && ts.now().Before(expiresAt) {
		return value, nil
	}

	value, err := ts.exchange(ctx)
	if err != nil {
		return "", &ports.AuthError{Err: err}
	}

	ts.mu.Lock()
	ts.value = value
	ts.expiresAt = ts.now().Add(tokenLifetime)
	ts.mu.Unlock()

	return value, nil
}

func (ts *TokenSource) exchange(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("spotify adapter: build token request: %w", err)
	}
	req.SetBasicAuth(ts.clientID, ts.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify adapter: token status %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("spotify adapter: token decode error: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("spotify adapter: token response missing access_token")
	}

	return parsed.AccessToken, nil
}
