package ports

import (
	"context"

	"resonate/internal/core/domain"
)

// SimilarityProvider retrieves similar-track candidates for a seed from the
// similarity-graph service.
type SimilarityProvider interface {
	// Similar returns at most 50 candidates in service order. The order is
	// not assumed sorted by match score.
	Similar(ctx context.Context, title, artist string) ([]domain.SimilarCandidate, error)
}
