// Package worker provides bounded concurrent fan-out over a slice of items.
package worker

import (
	"context"
	"sync"
)

// Map runs fn over every item with at most limit invocations in flight.
// Results for which fn reports ok=false are dropped; the rest are returned
// in input order. Work already started runs to completion even if ctx is
// cancelled mid-flight.
func Map[I, O any](ctx context.Context, items []I, limit int, fn func(ctx context.Context, item I) (O, bool)) []O {
	if limit < 1 {
		limit = 1
	}

	type slot struct {
		value O
		ok    bool
	}
	results := make([]slot, len(items))

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, item := range items {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, item I) {
			defer wg.Done()
			defer func() { <-sem }()
			value, ok := fn(ctx, item)
			results[i] = slot{value: value, ok: ok}
		}(i, item)
	}
	wg.Wait()

	out := make([]O, 0, len(items))
	for _, r := range results {
		if r.ok {
			out = append(out, r.value)
		}
	}
	return out
}
