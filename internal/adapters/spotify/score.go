package spotify

import "strings"

// Artist relevance tiers. Checked in order: exact match, substring, prefix.
const (
	artistScoreExact     = 100
	artistScoreSubstring = 80
	artistScorePrefix    = 60
)

const (
	artistWeight     = 0.7
	popularityWeight = 0.3
	minPopularity    = 20
)

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// artistScore tiers how closely a candidate's artist matches the requested
// artist, on normalized strings.
func artistScore(requested, candidate string) int {
	a, b := normalizeName(requested), normalizeName(candidate)
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return artistScoreExact
	case strings.Contains(a, b) || strings.Contains(b, a):
		return artistScoreSubstring
	case strings.HasPrefix(a, b) || strings.HasPrefix(b, a):
		return artistScorePrefix
	default:
		return 0
	}
}

// totalScore blends artist relevance with catalog popularity.
func totalScore(artistScore, popularity int) float64 {
	return float64(artistScore)*artistWeight + float64(popularity)*popularityWeight
}
