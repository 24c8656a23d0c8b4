// Package rest is the HTTP interface: thin validation and delegation around
// the core services, plus the OAuth session glue.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"resonate/internal/cache"
	"resonate/internal/core/domain"
)

type recommendService interface {
	Recommend(ctx context.Context, query string) (domain.RecommendationSet, error)
}

type explainService interface {
	Explain(ctx context.Context, seed, rec domain.Track) string
}

type playlistCreator interface {
	CreatePlaylistForUser(ctx context.Context, accessToken, name string, uris []string) (string, error)
}

// Config carries the handler's wiring that is not a service.
type Config struct {
	AllowedOrigins []string
	OAuth          *oauth2.Config
}

// Handler manages the HTTP interface.
type Handler struct {
	recommender recommendService
	explainer   explainService
	playlists   playlistCreator
	oauth       *oauth2.Config
	sessions    *cache.Cache[*oauth2.Token]
	states      *cache.Cache[string]
	router      chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(rec recommendService, exp explainService, playlists playlistCreator, cfg Config) *Handler {
	h := &Handler{
		recommender: rec,
		explainer:   exp,
		playlists:   playlists,
		oauth:       cfg.OAuth,
		sessions:    cache.New[*oauth2.Token](cache.DefaultTTL),
		states:      cache.New[string](cache.DefaultTTL),
		router:      chi.NewRouter(),
	}

	h.router.Use(middleware.Recoverer)
	h.router.Use(requestLogger)
	h.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/api/recommendations", h.GetRecommendations)
	h.router.Post("/api/explanation", h.Explain)
	h.router.Get("/auth/login", h.Login)
	h.router.Get("/auth/callback", h.Callback)
	h.router.Post("/api/playlist", h.CreatePlaylist)
}

// HealthCheck verifies the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
