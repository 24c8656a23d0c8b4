package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"

	"resonate/internal/adapters/lastfm"
	"resonate/internal/adapters/openai"
	"resonate/internal/adapters/rest"
	"resonate/internal/adapters/spotify"
	"resonate/internal/cache"
	"resonate/internal/config"
	"resonate/internal/core/domain"
	"resonate/internal/core/ports"
	"resonate/internal/core/services"
	"resonate/internal/logging"
)

const spotifyAuthURL = "https://accounts.spotify.com/authorize"

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.Setup("info")
		fallback.Fatal().Err(err).Msg("configuration error")
	}
	logger := logging.Setup(cfg.LogLevel)

	// Driven adapters.
	tokens := spotify.NewTokenSource(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	catalog := spotify.NewClient(tokens)
	similarity := lastfm.NewClient(cfg.LastFMAPIKey)

	var generator ports.TextGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set; explanations fall back to templates")
	}

	// Core services with injected caches and random sources.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	recommender := services.NewRecommender(
		catalog,
		similarity,
		cache.New[domain.RecommendationSet](cache.DefaultTTL),
		rng,
		services.WithEnrichConcurrency(cfg.EnrichConcurrency),
	)
	explainer := services.NewExplainer(
		generator,
		cache.New[string](cache.DefaultTTL),
		rand.New(rand.NewSource(time.Now().UnixNano()+1)),
	)

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		RedirectURL:  cfg.SpotifyRedirectURL,
		Scopes:       []string{"playlist-modify-private"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	handler := rest.NewHandler(recommender, explainer, catalog, rest.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		OAuth:          oauthCfg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	logger.Info().Str("addr", cfg.Addr).Msg("resonate API listening")

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}
}
