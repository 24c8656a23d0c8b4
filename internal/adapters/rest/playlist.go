package rest

import (
	"net/http"

	"github.com/goccy/go-json"
)

type createPlaylistRequest struct {
	Name string   `json:"name"`
	URIs []string `json:"uris"`
}

type createPlaylistResponse struct {
	URL string `json:"url"`
}

// CreatePlaylist handles POST /api/playlist. Requires a login session;
// passes straight through to the catalog.
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	token, ok := h.sessions.Get(cookie.Value)
	if !ok {
		writeError(w, http.StatusUnauthorized, "session expired")
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "playlist name is required")
		return
	}

	url, err := h.playlists.CreatePlaylistForUser(r.Context(), token.AccessToken, req.Name, req.URIs)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, createPlaylistResponse{URL: url})
}
