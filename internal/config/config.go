// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Addr string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string

	LastFMAPIKey string

	// OpenAIAPIKey may be empty; the explainer degrades to templates.
	OpenAIAPIKey string

	AllowedOrigins    []string
	EnrichConcurrency int

	LogLevel string
}

// Load reads a .env file if present, then the environment. It fails when a
// required credential is missing so the process can crash early.
func Load() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Addr:                getEnv("ADDR", ":8080"),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURL:  getEnv("SPOTIFY_REDIRECT_URL", "http://localhost:8080/auth/callback"),
		LastFMAPIKey:        os.Getenv("LASTFM_API_KEY"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		EnrichConcurrency:   getEnvInt("ENRICH_CONCURRENCY", 20),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		return Config{}, fmt.Errorf("config: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}
	if cfg.LastFMAPIKey == "" {
		return Config{}, fmt.Errorf("config: LASTFM_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
