// Package config reads the job's configuration from the environment,
// loading a .env file first if one is present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRefreshToken string

	// DatabaseURL is a postgres connection string.
	DatabaseURL string

	// ArchiveDir is the root under which per-entity snapshot directories
	// are created.
	ArchiveDir string

	// Timezone is the IANA zone played-at instants are normalized into.
	Timezone string
}

// FromEnv loads .env if present and assembles the configuration. The
// Spotify credentials and the database URL are required.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRefreshToken: os.Getenv("SPOTIFY_REFRESH_TOKEN"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		ArchiveDir:          getenv("ARCHIVE_DIR", "checkpoints"),
		Timezone:            getenv("TIMEZONE", "Europe/Paris"),
	}

	for _, required := range []struct{ key, value string }{
		{"SPOTIFY_CLIENT_ID", cfg.SpotifyClientID},
		{"SPOTIFY_CLIENT_SECRET", cfg.SpotifyClientSecret},
		{"SPOTIFY_REFRESH_TOKEN", cfg.SpotifyRefreshToken},
		{"DATABASE_URL", cfg.DatabaseURL},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("must set %s", required.key)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
