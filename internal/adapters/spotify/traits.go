package spotify

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"

	"resonate/internal/core/domain"
)

type traitsBreaker = *gobreaker.CircuitBreaker[*domain.AudioTraits]

// newTraitsBreaker builds the circuit breaker around the audio-features
// endpoint. An open breaker degrades lookups to "traits absent", which every
// caller already tolerates.
func newTraitsBreaker() traitsBreaker {
	return gobreaker.NewCircuitBreaker[*domain.AudioTraits](gobreaker.Settings{
		Name:     "spotify-audio-features",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("spotify adapter: breaker state change")
		},
	})
}

// AudioTraits fetches audio features for a track and maps them to 1-10
// scales. Any failure, including an open breaker, is reported to the caller
// as an error and treated upstream as "attributes absent".
func (c *Client) AudioTraits(ctx context.Context, id string) (*domain.AudioTraits, error) {
	return c.traitsBreaker.Execute(func() (*domain.AudioTraits, error) {
		var features audioFeaturesObject
		if err := c.getJSON(ctx, fmt.Sprintf("%s/audio-features/%s", c.apiURL, id), &features); err != nil {
			return nil, fmt.Errorf("spotify adapter: audio features failed: %w", err)
		}
		return &domain.AudioTraits{
			Danceability: scaleTrait(features.Energy),
			Mood:         scaleTrait(features.Valence),
		}, nil
	})
}

// scaleTrait maps a 0-1 feature to the 1-10 integer scale.
func scaleTrait(v float64) *int {
	n := int(math.Round(v * 10))
	return &n
}
