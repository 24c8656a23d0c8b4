// Package lastfm implements the similarity adapter over the Last.fm
// track.getSimilar endpoint.
package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"resonate/internal/core/domain"
	"resonate/internal/core/ports"
)

const defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// maxCandidates caps the candidate list requested from the service.
const maxCandidates = 50

// Client is an HTTP client for the Last.fm API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// compile-time interface assertion
var _ ports.SimilarityProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient constructs a Last.fm client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type similarResponse struct {
	SimilarTracks struct {
		Track []struct {
			Name   string  `json:"name"`
			Match  float64 `json:"match"`
			Artist struct {
				Name string `json:"name"`
			} `json:"artist"`
		} `json:"track"`
	} `json:"similartracks"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// Similar retrieves up to 50 similar-track candidates for a seed, in service
// order. A structured error payload in the body is surfaced as an
// UpstreamServiceError, distinct from HTTP-level failures.
func (c *Client) Similar(ctx context.Context, title, artist string) ([]domain.SimilarCandidate, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("lastfm adapter: invalid base url: %w", err)
	}
	query := endpoint.Query()
	query.Set("method", "track.getsimilar")
	query.Set("track", strings.TrimSpace(title))
	query.Set("artist", strings.TrimSpace(artist))
	query.Set("api_key", c.apiKey)
	query.Set("format", "json")
	query.Set("limit", fmt.Sprintf("%d", maxCandidates))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("lastfm adapter: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ports.UpstreamRequestError{Service: "lastfm", Status: http.StatusBadGateway, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ports.UpstreamRequestError{Service: "lastfm", Status: resp.StatusCode}
	}

	var body similarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("lastfm adapter: decode response: %w", err)
	}
	if body.Error != 0 {
		return nil, &ports.UpstreamServiceError{Service: "lastfm", Message: body.Message}
	}

	tracks := body.SimilarTracks.Track
	if len(tracks) > maxCandidates {
		tracks = tracks[:maxCandidates]
	}

	candidates := make([]domain.SimilarCandidate, 0, len(tracks))
	for _, tr := range tracks {
		candidates = append(candidates, domain.SimilarCandidate{
			Name:       tr.Name,
			Artist:     tr.Artist.Name,
			MatchScore: tr.Match,
		})
	}
	return candidates, nil
}
