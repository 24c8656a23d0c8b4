package spotify

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"resonate/internal/core/domain"
)

const searchLimit = 10

type scoredTrack struct {
	track       trackObject
	artistScore int
	total       float64
}

// Resolve queries the catalog for (title, artist) and returns the
// best-scoring match, or nil when the search yields zero candidates.
//
// The filter prefers candidates that are either reasonably popular or an
// exact artist match; when nothing passes it, the top-scoring candidate is
// returned anyway rather than failing.
func (c *Client) Resolve(ctx context.Context, title, artist string) (*domain.Match, error) {
	searchURL, err := url.Parse(c.apiURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	query := searchURL.Query()
	query.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	query.Set("type", "track")
	query.Set("limit", fmt.Sprintf("%d", searchLimit))
	searchURL.RawQuery = query.Encode()

	var body searchResponse
	if err := c.getJSON(ctx, searchURL.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}

	items := body.Tracks.Items
	if len(items) == 0 {
		return nil, nil
	}

	scored := make([]scoredTrack, 0, len(items))
	for _, item := range items {
		as := artistScore(artist, joinArtistNames(item))
		st := scoredTrack{track: item, artistScore: as, total: totalScore(as, item.Popularity)}
		log.Debug().
			Str("title", item.Name).
			Str("artist", joinArtistNames(item)).
			Int("popularity", item.Popularity).
			Int("artist_score", as).
			Float64("total", st.total).
			Msg("spotify adapter: search candidate")
		scored = append(scored, st)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].total > scored[j].total
	})

	best := scored[0]
	for _, s := range scored {
		if s.track.Popularity >= minPopularity || s.artistScore == artistScoreExact {
			best = s
			break
		}
	}

	return &domain.Match{Track: mapTrackToDomain(best.track), Score: best.total}, nil
}

// ResolveByID fetches one track by catalog identifier.
func (c *Client) ResolveByID(ctx context.Context, id string) (domain.Track, error) {
	var tr trackObject
	if err := c.getJSON(ctx, fmt.Sprintf("%s/tracks/%s", c.apiURL, id), &tr); err != nil {
		return domain.Track{}, fmt.Errorf("spotify adapter: get track failed: %w", err)
	}
	return mapTrackToDomain(tr), nil
}

func joinArtistNames(tr trackObject) string {
	if len(tr.Artists) == 0 {
		return ""
	}
	names := make([]string, 0, len(tr.Artists))
	for _, a := range tr.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
