package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"resonate/internal/cache"
	"resonate/internal/core/domain"
	"resonate/internal/core/ports"
)

const (
	explainAttempts       = 2
	explainAttemptTimeout = 5 * time.Second
	explainRetryBackoff   = time.Second
)

// Explainer produces a one-sentence rationale per (seed, recommendation)
// pair. It never fails outward: generation errors degrade to templated
// fallbacks. Only generator-produced text is cached, never fallback text.
type Explainer struct {
	gen            ports.TextGenerator // nil when no credential is configured
	texts          *cache.Cache[string]
	attemptTimeout time.Duration
	retryBackoff   time.Duration
	sleep          func(ctx context.Context, d time.Duration) error

	mu  sync.Mutex
	rng *rand.Rand
}

// ExplainerOption configures an Explainer.
type ExplainerOption func(*Explainer)

// WithExplainTimings overrides the per-attempt deadline and retry backoff,
// for tests.
func WithExplainTimings(attemptTimeout, retryBackoff time.Duration) ExplainerOption {
	return func(e *Explainer) {
		e.attemptTimeout = attemptTimeout
		e.retryBackoff = retryBackoff
	}
}

// NewExplainer constructs an Explainer. Pass a nil generator when no
// generative-service credential is configured; the explainer then serves
// static fallbacks without calling out.
func NewExplainer(gen ports.TextGenerator, texts *cache.Cache[string], rng *rand.Rand, opts ...ExplainerOption) *Explainer {
	e := &Explainer{
		gen:            gen,
		texts:          texts,
		attemptTimeout: explainAttemptTimeout,
		retryBackoff:   explainRetryBackoff,
		rng:            rng,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain returns a short rationale for recommending rec to a listener who
// liked seed, annotated with the recommendation's audio traits.
func (e *Explainer) Explain(ctx context.Context, seed, rec domain.Track) string {
	key := cache.Key("explain", seed.Title, seed.Artist, rec.Title, rec.Artist)
	if cached, ok := e.texts.Get(key); ok {
		return annotate(cached, rec.Traits)
	}

	if e.gen == nil {
		return annotate(staticFallback(seed, rec), rec.Traits)
	}

	cfg := retryConfig{
		attempts:       explainAttempts,
		attemptTimeout: e.attemptTimeout,
		backoff:        e.retryBackoff,
		permanent:      isClientError,
		sleep:          e.sleep,
	}
	text, err := doWithRetry(ctx, cfg, func(ctx context.Context) (string, error) {
		return e.gen.Complete(ctx, buildPrompt(seed, rec))
	})
	if err != nil {
		log.Warn().Err(err).Str("seed", seed.Title).Str("recommendation", rec.Title).Msg("explainer: generation failed, using fallback")
		return annotate(e.fallback(seed, rec), rec.Traits)
	}

	e.texts.Set(key, text)
	return annotate(text, rec.Traits)
}

// isClientError reports whether err is a 4xx upstream response, which must
// not be retried.
func isClientError(err error) bool {
	var reqErr *ports.UpstreamRequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status >= http.StatusBadRequest && reqErr.Status < http.StatusInternalServerError
	}
	return false
}

func buildPrompt(seed, rec domain.Track) string {
	return fmt.Sprintf(
		"In one sentence, explain why someone who likes %q by %s would enjoy %q by %s.",
		seed.Title, seed.Artist, rec.Title, rec.Artist,
	)
}

func staticFallback(seed, rec domain.Track) string {
	return fmt.Sprintf("%q by %s shares a similar sound and feel with %q by %s.",
		rec.Title, rec.Artist, seed.Title, seed.Artist)
}

// Template args: 1 = rec title, 2 = rec artist, 3 = seed title, 4 = seed artist.
var sameArtistTemplates = []string{
	"Another %[2]s track, %[1]q keeps the energy you liked in %[3]q.",
	"If %[3]q hooked you, %[1]q shows a different side of %[2]s.",
	"%[1]q is a natural next stop in the %[2]s catalog after %[3]q.",
}

var differentArtistTemplates = []string{
	"Fans of %[4]s often land on %[1]q by %[2]s next.",
	"%[1]q by %[2]s moves in the same circles as %[3]q.",
	"%[2]s channels a mood on %[1]q that sits close to %[3]q by %[4]s.",
}

// fallback picks a phrasing uniformly at random from the pool matching
// whether the recommendation shares the seed's artist. Fallback text is
// never cached.
func (e *Explainer) fallback(seed, rec domain.Track) string {
	pool := differentArtistTemplates
	if strings.EqualFold(seed.Artist, rec.Artist) {
		pool = sameArtistTemplates
	}

	e.mu.Lock()
	template := pool[e.rng.Intn(len(pool))]
	e.mu.Unlock()

	return fmt.Sprintf(template, rec.Title, rec.Artist, seed.Title, seed.Artist)
}

// annotate appends the audio-trait note unless the text already carries it.
func annotate(text string, traits *domain.AudioTraits) string {
	note := traitNote(traits)
	if note == "" || strings.Contains(text, note) {
		return text
	}
	return text + note
}

func traitNote(traits *domain.AudioTraits) string {
	if traits == nil {
		return ""
	}
	switch {
	case traits.Danceability != nil && traits.Mood != nil:
		return fmt.Sprintf(" (Danceability: %d/10, Mood: %d/10)", *traits.Danceability, *traits.Mood)
	case traits.Danceability != nil:
		return fmt.Sprintf(" (Danceability: %d/10)", *traits.Danceability)
	case traits.Mood != nil:
		return fmt.Sprintf(" (Mood: %d/10)", *traits.Mood)
	default:
		return ""
	}
}
