package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadConfigMissingToken(t *testing.T) {
	_, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatalf("expected error for missing MAP_TOKEN")
	}
	if !strings.Contains(err.Error(), "missing configuration") {
		t.Fatalf("expected missing configuration error, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"MAP_TOKEN": "pk.test",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FeedBaseURL != "https://share.garmin.com/Feed/Share" {
		t.Fatalf("unexpected feed base URL: %q", cfg.FeedBaseURL)
	}
	if cfg.PollInterval != 2*time.Minute {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval)
	}
	if cfg.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.MapShareID != "" {
		t.Fatalf("share ID should default to empty, got %q", cfg.MapShareID)
	}
	if cfg.TrackHistoryMax != 0 {
		t.Fatalf("history cap should default to unbounded, got %d", cfg.TrackHistoryMax)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"MAP_TOKEN":         "pk.test",
		"FEED_BASE_URL":     "http://feeds.example.com/share",
		"MAPSHARE_ID":       "device42",
		"POLL_INTERVAL":     "30s",
		"TRACK_HISTORY_MAX": "500",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FeedBaseURL != "http://feeds.example.com/share" {
		t.Fatalf("unexpected feed base URL: %q", cfg.FeedBaseURL)
	}
	if cfg.MapShareID != "device42" {
		t.Fatalf("unexpected share ID: %q", cfg.MapShareID)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval)
	}
	if cfg.TrackHistoryMax != 500 {
		t.Fatalf("unexpected history cap: %d", cfg.TrackHistoryMax)
	}
}
