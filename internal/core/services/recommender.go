package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"resonate/internal/cache"
	"resonate/internal/core/domain"
	"resonate/internal/core/ports"
	"resonate/internal/worker"
)

const (
	// maxEnrichInput caps how many shuffled candidates enter the fan-out.
	maxEnrichInput = 20
	// maxRecommendations caps the returned set.
	maxRecommendations = 10
	// minDifferentArtists is the diversity floor the selection policy
	// attempts to guarantee.
	minDifferentArtists = 4
	// sameArtistFillCap bounds same-artist entries in the rebuilt list.
	sameArtistFillCap = 6

	defaultEnrichConcurrency = 20
)

var (
	trackIDPattern       = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)
	seedSeparatorPattern = regexp.MustCompile(`(?i) by `)
)

// Recommender resolves a seed, fetches similarity candidates, enriches them
// against the catalog, and applies the diversity-constrained selection
// policy. Result sets are cached per normalized seed query.
type Recommender struct {
	catalog     ports.CatalogProvider
	similar     ports.SimilarityProvider
	sets        *cache.Cache[domain.RecommendationSet]
	concurrency int

	mu  sync.Mutex
	rng *rand.Rand
}

// RecommenderOption configures a Recommender.
type RecommenderOption func(*Recommender)

// WithEnrichConcurrency caps concurrent catalog resolutions during
// enrichment.
func WithEnrichConcurrency(n int) RecommenderOption {
	return func(r *Recommender) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRecommender constructs a Recommender. The random source drives the
// candidate shuffle; inject a seeded one in tests for a fixed permutation.
func NewRecommender(catalog ports.CatalogProvider, similar ports.SimilarityProvider, sets *cache.Cache[domain.RecommendationSet], rng *rand.Rand, opts ...RecommenderOption) *Recommender {
	r := &Recommender{
		catalog:     catalog,
		similar:     similar,
		sets:        sets,
		concurrency: defaultEnrichConcurrency,
		rng:         rng,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend resolves the seed query (a catalog ID or "Title by Artist") and
// returns at most 10 enriched recommendations. Sets are served from cache
// for an hour; recommendations are intentionally re-shuffled on
// recomputation.
func (r *Recommender) Recommend(ctx context.Context, query string) (domain.RecommendationSet, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.RecommendationSet{}, &ports.ValidationError{Reason: "empty seed query"}
	}

	key := cache.Key("recommend", q)
	if set, ok := r.sets.Get(key); ok {
		return set, nil
	}

	seed, err := r.resolveSeed(ctx, q)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	candidates, err := r.similar.Similar(ctx, seed.Title, seed.Artist)
	if err != nil {
		return domain.RecommendationSet{}, fmt.Errorf("recommender: similarity lookup: %w", err)
	}

	recommendations, err := r.enrich(ctx, candidates, seed.Artist)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	set := domain.RecommendationSet{Seed: seed, Recommendations: recommendations}
	r.sets.Set(key, set)
	return set, nil
}

func (r *Recommender) resolveSeed(ctx context.Context, q string) (domain.Track, error) {
	if id, ok := strings.CutPrefix(q, "spotify:track:"); ok {
		return r.catalog.ResolveByID(ctx, id)
	}
	if trackIDPattern.MatchString(q) {
		return r.catalog.ResolveByID(ctx, q)
	}

	title, artist, ok := splitSeedQuery(q)
	if !ok {
		return domain.Track{}, &ports.ValidationError{Reason: `expected "<title> by <artist>" or a track id`}
	}

	match, err := r.catalog.Resolve(ctx, title, artist)
	if err != nil {
		return domain.Track{}, fmt.Errorf("recommender: seed resolution: %w", err)
	}
	if match == nil {
		return domain.Track{}, &ports.NotFoundError{Query: q}
	}
	return match.Track, nil
}

// splitSeedQuery splits a free-text seed on its last " by ", so titles that
// themselves contain " by " still parse. The separator is matched
// case-insensitively on the original string; lowering a copy first would
// shift byte offsets for runes whose case folding changes length.
func splitSeedQuery(q string) (title, artist string, ok bool) {
	seps := seedSeparatorPattern.FindAllStringIndex(q, -1)
	if len(seps) == 0 {
		return "", "", false
	}
	sep := seps[len(seps)-1]
	title = strings.TrimSpace(q[:sep[0]])
	artist = strings.TrimSpace(q[sep[1]:])
	if title == "" || artist == "" {
		return "", "", false
	}
	return title, artist, true
}

// enrich shuffles the candidates, resolves up to 20 of them concurrently,
// and applies the selection policy. Candidates that fail to resolve are
// dropped silently; only a total failure is an error.
func (r *Recommender) enrich(ctx context.Context, candidates []domain.SimilarCandidate, seedArtist string) ([]domain.EnrichedTrack, error) {
	shuffled := make([]domain.SimilarCandidate, len(candidates))
	copy(shuffled, candidates)
	r.mu.Lock()
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	r.mu.Unlock()

	if len(shuffled) > maxEnrichInput {
		shuffled = shuffled[:maxEnrichInput]
	}

	// Fan-out work runs to completion even if the inbound request goes
	// away; the result is cached for the next caller.
	enrichCtx := context.WithoutCancel(ctx)

	enriched := worker.Map(enrichCtx, shuffled, r.concurrency, func(ctx context.Context, cand domain.SimilarCandidate) (domain.EnrichedTrack, bool) {
		match, err := r.catalog.Resolve(ctx, cand.Name, cand.Artist)
		if err != nil {
			log.Debug().Err(err).Str("title", cand.Name).Str("artist", cand.Artist).Msg("recommender: candidate resolution failed")
			return domain.EnrichedTrack{}, false
		}
		if match == nil {
			return domain.EnrichedTrack{}, false
		}

		track := match.Track
		if traits, err := r.catalog.AudioTraits(ctx, track.ID); err == nil {
			track.Traits = traits
		}

		return domain.EnrichedTrack{
			Track:           track,
			SameArtist:      strings.EqualFold(track.Artist, seedArtist),
			MatchScore:      match.Score,
			SimilarityScore: cand.MatchScore,
		}, true
	})

	if len(enriched) == 0 {
		return nil, &ports.NoEnrichmentError{Candidates: len(shuffled)}
	}

	return selectRecommendations(enriched), nil
}

// selectRecommendations applies the two-pass selection policy: prefer
// different-artist tracks, fill from same-artist, then enforce the diversity
// floor. Order within each partition follows the shuffled candidate order.
func selectRecommendations(enriched []domain.EnrichedTrack) []domain.EnrichedTrack {
	var different, same []domain.EnrichedTrack
	for _, e := range enriched {
		if e.SameArtist {
			same = append(same, e)
		} else {
			different = append(different, e)
		}
	}

	selected := make([]domain.EnrichedTrack, 0, maxRecommendations)
	for _, e := range different {
		if len(selected) >= maxRecommendations {
			break
		}
		selected = append(selected, e)
	}
	for _, e := range same {
		if len(selected) >= maxRecommendations {
			break
		}
		selected = append(selected, e)
	}

	diffCount := len(different)
	if diffCount > maxRecommendations {
		diffCount = maxRecommendations
	}
	// Rebuild only when different-artist entries exist to be guaranteed a
	// slot; with none, the first pass already filled from the same-artist
	// pool as fully as it permits.
	if diffCount > 0 && diffCount < minDifferentArtists && len(same) > 0 {
		fill := maxRecommendations - len(different)
		if fill > sameArtistFillCap {
			fill = sameArtistFillCap
		}
		selected = append([]domain.EnrichedTrack{}, different...)
		for i := 0; i < len(same) && i < fill; i++ {
			selected = append(selected, same[i])
		}
		if len(selected) > maxRecommendations {
			selected = selected[:maxRecommendations]
		}
	}

	return selected
}
