package rest

import "net/http"

// GetRecommendations handles GET /api/recommendations?track=...
// The track parameter is either a catalog ID or free-text "Title by Artist".
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("track")
	if query == "" {
		writeError(w, http.StatusBadRequest, "track query parameter is required")
		return
	}

	set, err := h.recommender.Recommend(r.Context(), query)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, set)
}
