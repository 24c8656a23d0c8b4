// Package spotify implements the catalog adapter: seed resolution, best-match
// search scoring, audio traits, and the playlist-creation glue.
package spotify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"resonate/internal/core/ports"
)

const defaultAPIURL = "https://api.spotify.com/v1"

// Client is the HTTP client for the Spotify Web API.
type Client struct {
	httpClient    *http.Client
	apiURL        string
	tokens        *TokenSource
	traitsBreaker traitsBreaker
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the API base URL, for tests.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient constructs a Spotify client on top of a TokenSource.
func NewClient(tokens *TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient:    http.DefaultClient,
		apiURL:        defaultAPIURL,
		tokens:        tokens,
		traitsBreaker: newTraitsBreaker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs an authenticated GET using the client-credentials token.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodGet, url, token, nil, out)
}

// doJSON performs a request with an explicit bearer token and decodes the
// response body into out when it is non-nil.
func (c *Client) doJSON(ctx context.Context, method, url, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("spotify adapter: marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("spotify adapter: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ports.UpstreamRequestError{Service: "spotify", Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode response: %w", err)
	}
	return nil
}
