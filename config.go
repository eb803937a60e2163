package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every externally resolved setting. It is resolved once at
// process start and read-only afterwards.
type Config struct {
	// MapToken is the mapping-service access token handed to the frontend.
	// The widget is unusable without it, so startup aborts when it is missing.
	MapToken string `env:"MAP_TOKEN, required"`

	// FeedBaseURL is the MapShare feed root; the share ID and "/kml" are
	// appended per request. The value is not checked for URL well-formedness.
	FeedBaseURL string `env:"FEED_BASE_URL, default=https://share.garmin.com/Feed/Share"`

	// MapShareID identifies the tracked device's share feed. Unlike the map
	// token, its absence is a per-tick error rather than a startup failure, so
	// the widget can come up before the ID is known.
	MapShareID string `env:"MAPSHARE_ID"`

	Port            int           `env:"PORT,              default=8080"`
	PollInterval    time.Duration `env:"POLL_INTERVAL,     default=2m"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT,     default=30s"`
	TrackHistoryMax int           `env:"TRACK_HISTORY_MAX, default=0"`
	StaticDir       string        `env:"STATIC_DIR,        default=./static"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,  default=10s"`
	LogLevel        string        `env:"LOG_LEVEL,         default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,        default=false"`
}

// loadConfig reads configuration from the given lookuper (the process
// environment in production, a map in tests) using go-envconfig.
func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper})
	if err != nil {
		if errors.Is(err, envconfig.ErrMissingRequired) {
			return Config{}, fmt.Errorf("missing configuration: %w", err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
