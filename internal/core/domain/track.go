package domain

// UnknownAlbum is substituted when the catalog omits album metadata.
const UnknownAlbum = "Unknown Album"

// Track represents a catalog entry. Immutable once constructed.
type Track struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	Album       string       `json:"album"`
	ExternalURL string       `json:"external_url"`
	URI         string       `json:"uri"`
	CoverURL    string       `json:"cover_url,omitempty"`
	PreviewURL  string       `json:"preview_url,omitempty"`
	Popularity  int          `json:"popularity"`
	Traits      *AudioTraits `json:"traits,omitempty"`
}

// AudioTraits are 1-10 integer scales derived from catalog audio features.
// A nil field means the attribute could not be fetched.
type AudioTraits struct {
	Danceability *int `json:"danceability,omitempty"`
	Mood         *int `json:"mood,omitempty"`
}

// Match is a catalog resolution: the resolved track plus the relevance score
// the matcher computed for it.
type Match struct {
	Track Track
	Score float64
}

// SimilarCandidate is a raw result from the similarity service. Transient,
// never persisted.
type SimilarCandidate struct {
	Name       string
	Artist     string
	MatchScore float64
}

// EnrichedTrack is a similarity candidate resolved against the catalog.
// MatchScore comes from the catalog resolution; the raw similarity score is
// kept only as a secondary field.
type EnrichedTrack struct {
	Track
	SameArtist      bool    `json:"same_artist"`
	MatchScore      float64 `json:"match_score"`
	SimilarityScore float64 `json:"similarity_score"`
}

// RecommendationSet is the result of a recommend call.
type RecommendationSet struct {
	Seed            Track           `json:"seed"`
	Recommendations []EnrichedTrack `json:"recommendations"`
}
