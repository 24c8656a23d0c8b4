package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"resonate/internal/cache"
	"resonate/internal/core/domain"
	"resonate/internal/core/ports"
)

type genResult struct {
	text string
	err  error
}

// scriptedGenerator replays a fixed sequence of results; the last one
// repeats.
type scriptedGenerator struct {
	mu      sync.Mutex
	results []genResult
	calls   int
}

func (g *scriptedGenerator) Complete(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.calls
	if idx >= len(g.results) {
		idx = len(g.results) - 1
	}
	g.calls++
	r := g.results[idx]
	return r.text, r.err
}

func intPtr(n int) *int { return &n }

func testTracks() (seed, rec domain.Track) {
	seed = domain.Track{Title: "Let It Happen", Artist: "Tame Impala"}
	rec = domain.Track{
		Title:  "Silver Soul",
		Artist: "Beach House",
		Traits: &domain.AudioTraits{Danceability: intPtr(7), Mood: intPtr(3)},
	}
	return seed, rec
}

func newTestExplainer(gen ports.TextGenerator, texts *cache.Cache[string]) *Explainer {
	return NewExplainer(gen, texts, rand.New(rand.NewSource(7)),
		WithExplainTimings(100*time.Millisecond, time.Millisecond))
}

func statusErr(status int) error {
	return &ports.UpstreamRequestError{Service: "openai", Status: status}
}

func TestExplainRetriesServerErrorThenCachesModelText(t *testing.T) {
	gen := &scriptedGenerator{results: []genResult{
		{err: statusErr(http.StatusServiceUnavailable)},
		{text: "Both lean on dreamy synth washes."},
	}}
	texts := cache.New[string](time.Hour)
	e := newTestExplainer(gen, texts)
	seed, rec := testTracks()

	got := e.Explain(context.Background(), seed, rec)
	want := "Both lean on dreamy synth washes. (Danceability: 7/10, Mood: 3/10)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if gen.calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry after 503)", gen.calls)
	}

	// The cache holds the raw model text, not the annotated string.
	key := cache.Key("explain", seed.Title, seed.Artist, rec.Title, rec.Artist)
	cached, ok := texts.Get(key)
	if !ok {
		t.Fatal("model text missing from cache")
	}
	if cached != "Both lean on dreamy synth washes." {
		t.Errorf("cached = %q, want raw model text", cached)
	}
}

func TestExplainDoubleFailureFallsBackUncached(t *testing.T) {
	gen := &scriptedGenerator{results: []genResult{
		{err: statusErr(http.StatusServiceUnavailable)},
	}}
	texts := cache.New[string](time.Hour)
	e := newTestExplainer(gen, texts)
	seed, rec := testTracks()

	got := e.Explain(context.Background(), seed, rec)
	if got == "" {
		t.Fatal("fallback must still produce text")
	}
	if !strings.HasSuffix(got, " (Danceability: 7/10, Mood: 3/10)") {
		t.Errorf("fallback not annotated: %q", got)
	}
	if gen.calls != 2 {
		t.Errorf("calls = %d, want 2", gen.calls)
	}

	key := cache.Key("explain", seed.Title, seed.Artist, rec.Title, rec.Artist)
	if _, ok := texts.Get(key); ok {
		t.Error("fallback text must not be cached")
	}
}

func TestExplainClientErrorIsNotRetried(t *testing.T) {
	gen := &scriptedGenerator{results: []genResult{
		{err: statusErr(http.StatusUnauthorized)},
	}}
	e := newTestExplainer(gen, cache.New[string](time.Hour))
	seed, rec := testTracks()

	got := e.Explain(context.Background(), seed, rec)
	if got == "" {
		t.Fatal("expected fallback text")
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx aborts retries)", gen.calls)
	}
}

func TestExplainWithoutCredential(t *testing.T) {
	e := newTestExplainer(nil, cache.New[string](time.Hour))
	seed, rec := testTracks()

	got := e.Explain(context.Background(), seed, rec)
	want := staticFallback(seed, rec) + " (Danceability: 7/10, Mood: 3/10)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExplainCacheHitAnnotatesOnce(t *testing.T) {
	gen := &scriptedGenerator{results: []genResult{
		{text: "Shared shimmering guitars."},
	}}
	e := newTestExplainer(gen, cache.New[string](time.Hour))
	seed, rec := testTracks()

	first := e.Explain(context.Background(), seed, rec)
	second := e.Explain(context.Background(), seed, rec)

	if first != second {
		t.Errorf("cache hit returned different text: %q vs %q", first, second)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1 (second Explain served from cache)", gen.calls)
	}

	const note = " (Danceability: 7/10, Mood: 3/10)"
	if strings.Count(second, note) != 1 {
		t.Errorf("annotation appended %d times in %q, want exactly once", strings.Count(second, note), second)
	}
}

func TestExplainSameArtistFallbackPool(t *testing.T) {
	gen := &scriptedGenerator{results: []genResult{
		{err: statusErr(http.StatusServiceUnavailable)},
	}}
	e := newTestExplainer(gen, cache.New[string](time.Hour))

	seed := domain.Track{Title: "Let It Happen", Artist: "Tame Impala"}
	rec := domain.Track{Title: "Elephant", Artist: "tame impala"}

	got := e.Explain(context.Background(), seed, rec)

	matched := false
	for _, tmpl := range sameArtistTemplates {
		if got == fmt.Sprintf(tmpl, rec.Title, rec.Artist, seed.Title, seed.Artist) {
			matched = true
			break
		}
	}
	if !matched {
		t.Errorf("fallback %q not from the same-artist pool", got)
	}
}

func TestTraitNote(t *testing.T) {
	tests := []struct {
		name   string
		traits *domain.AudioTraits
		want   string
	}{
		{"both", &domain.AudioTraits{Danceability: intPtr(7), Mood: intPtr(3)}, " (Danceability: 7/10, Mood: 3/10)"},
		{"danceability only", &domain.AudioTraits{Danceability: intPtr(9)}, " (Danceability: 9/10)"},
		{"mood only", &domain.AudioTraits{Mood: intPtr(2)}, " (Mood: 2/10)"},
		{"both nil", &domain.AudioTraits{}, ""},
		{"no traits", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := traitNote(tt.traits); got != tt.want {
				t.Errorf("traitNote = %q, want %q", got, tt.want)
			}
		})
	}
}
