package ports

import (
	"context"

	"resonate/internal/core/domain"
)

// CatalogProvider resolves track metadata against the music catalog.
type CatalogProvider interface {
	// Resolve finds the best catalog match for a (title, artist) pair.
	// It returns nil when the catalog query yields zero candidates.
	Resolve(ctx context.Context, title, artist string) (*domain.Match, error)

	// ResolveByID fetches a single track by its catalog identifier.
	ResolveByID(ctx context.Context, id string) (domain.Track, error)

	// AudioTraits fetches optional audio attributes for a track. Callers
	// treat any error as "attributes absent".
	AudioTraits(ctx context.Context, id string) (*domain.AudioTraits, error)
}
