package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMapPreservesOrderAndDropsFailures(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}

	got := Map(context.Background(), items, 3, func(_ context.Context, n int) (int, bool) {
		if n%2 == 0 {
			return 0, false
		}
		return n * 10, true
	})

	want := []int{10, 30, 50}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMapRespectsConcurrencyLimit(t *testing.T) {
	const limit = 4
	var inFlight, peak int32
	var mu sync.Mutex

	items := make([]int, 50)
	Map(context.Background(), items, limit, func(_ context.Context, n int) (int, bool) {
		cur := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if cur > peak {
			peak = cur
		}
		mu.Unlock()
		defer atomic.AddInt32(&inFlight, -1)
		return n, true
	})

	if peak > limit {
		t.Fatalf("peak concurrency %d exceeded limit %d", peak, limit)
	}
}

func TestMapEmptyInput(t *testing.T) {
	got := Map(context.Background(), nil, 8, func(_ context.Context, n int) (int, bool) {
		return n, true
	})
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
