package rest

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "resonate_session"

// Login handles GET /auth/login: redirects to the catalog's consent page
// with a one-time state parameter.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, http.StatusNotImplemented, "login is not configured")
		return
	}

	state := uuid.NewString()
	h.states.Set(state, state)
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/callback: verifies state, exchanges the code,
// and issues an opaque session cookie backed by the volatile session cache.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, http.StatusNotImplemented, "login is not configured")
		return
	}

	state := r.URL.Query().Get("state")
	if _, ok := h.states.Get(state); !ok {
		writeError(w, http.StatusBadRequest, "unknown or expired state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusBadGateway, "authorization exchange failed")
		return
	}

	sessionID := uuid.NewString()
	h.sessions.Set(sessionID, token)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
