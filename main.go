package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func main() {
	cfg, err := loadConfig(context.Background(), envconfig.OsLookuper())
	if err != nil {
		// logger is not configured yet
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	initLogging(cfg.LogLevel, cfg.LogPretty, os.Stdout)

	feed := NewKMLFeedSource(cfg.FeedBaseURL, cfg.MapShareID, cfg.FetchTimeout)
	hub := newWSHub()
	view := newWSMapView(hub, cfg.TrackHistoryMax)
	tracker := NewTracker(feed, cfg.MapShareID, view, cfg.PollInterval, cfg.FetchTimeout)

	a := &app{cfg: cfg, tracker: tracker, view: view, hub: hub}
	mux := http.NewServeMux()
	a.routes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("shutdown initiated")

	tracker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shut down successfully")
	}
}
