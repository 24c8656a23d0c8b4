package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resonate/internal/core/ports"
)

func TestTokenSourceExchangeAndCache(t *testing.T) {
	exchanges := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	defer ts.Close()

	current := time.Unix(1_000_000, 0)
	source := NewTokenSource("id", "secret",
		WithTokenURL(ts.URL),
		WithTokenClock(func() time.Time { return current }),
	)

	got, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != "tok-1" {
		t.Errorf("token = %q, want %q", got, "tok-1")
	}

	// Within the lifetime: cached, no second exchange.
	current = current.Add(3299 * time.Second)
	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("Token (cached): %v", err)
	}
	if exchanges != 1 {
		t.Fatalf("exchanges = %d, want 1", exchanges)
	}

	// Past the shortened lifetime: refreshed even though the advertised
	// 3600s has not elapsed.
	current = current.Add(2 * time.Second)
	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("Token (refresh): %v", err)
	}
	if exchanges != 2 {
		t.Fatalf("exchanges = %d, want 2", exchanges)
	}
}

func TestTokenSourceExchangeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	source := NewTokenSource("id", "secret", WithTokenURL(ts.URL))

	_, err := source.Token(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ports.ErrAuth) {
		t.Errorf("error %v is not an AuthError", err)
	}
}
