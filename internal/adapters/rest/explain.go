package rest

import (
	"net/http"

	"github.com/goccy/go-json"

	"resonate/internal/core/domain"
)

type trackPayload struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Danceability *int   `json:"danceability,omitempty"`
	Mood         *int   `json:"mood,omitempty"`
}

type explainRequest struct {
	Seed           trackPayload `json:"seed"`
	Recommendation trackPayload `json:"recommendation"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain handles POST /api/explanation. It never fails past validation:
// the explainer degrades internally.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Seed.Title == "" || req.Seed.Artist == "" || req.Recommendation.Title == "" || req.Recommendation.Artist == "" {
		writeError(w, http.StatusBadRequest, "seed and recommendation require title and artist")
		return
	}

	text := h.explainer.Explain(r.Context(), req.Seed.toDomain(), req.Recommendation.toDomain())
	writeJSON(w, http.StatusOK, explainResponse{Explanation: text})
}

func (p trackPayload) toDomain() domain.Track {
	track := domain.Track{Title: p.Title, Artist: p.Artist}
	if p.Danceability != nil || p.Mood != nil {
		track.Traits = &domain.AudioTraits{Danceability: p.Danceability, Mood: p.Mood}
	}
	return track
}
