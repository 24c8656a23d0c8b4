package rest

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"resonate/internal/core/ports"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusForError maps the core error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	var reqErr *ports.UpstreamRequestError
	var svcErr *ports.UpstreamServiceError
	switch {
	case errors.Is(err, ports.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrAuth),
		errors.Is(err, ports.ErrNoEnrichment),
		errors.As(err, &reqErr),
		errors.As(err, &svcErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
