package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxRouteUpload bounds route file uploads.
const maxRouteUpload = 8 << 20

type app struct {
	cfg     Config
	tracker *Tracker
	view    *wsMapView
	hub     *wsHub
}

func (a *app) routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/config", a.handleClientConfig)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/tracking/toggle", a.handleToggle)
	mux.HandleFunc("/api/route", a.handleRouteUpload)
	mux.HandleFunc("/ws", a.handleWebSocket)
	mux.Handle("/metrics", promhttp.Handler())

	fs := http.FileServer(http.Dir(a.cfg.StaticDir))
	mux.Handle("/", withLogging(fs))
}

// handleClientConfig hands the frontend what it needs to boot the map.
func (a *app) handleClientConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"mapToken":       a.cfg.MapToken,
		"pollIntervalMs": a.cfg.PollInterval.Milliseconds(),
	})
}

func (a *app) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := a.tracker.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"tracking":    status.Tracking,
		"location":    status.Location,
		"lastError":   status.LastError,
		"ticks":       status.Ticks,
		"successes":   status.Successes,
		"failures":    status.Failures,
		"trackPoints": a.view.TrackLen(),
	})
}

func (a *app) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	tracking := a.tracker.Toggle()
	writeJSON(w, http.StatusOK, map[string]any{"tracking": tracking})
}

// handleRouteUpload accepts a GPX or GeoJSON file in the "route" form field
// and replaces the planned-route layer wholesale.
func (a *app) handleRouteUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if err := r.ParseMultipartForm(maxRouteUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("route")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing route file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxRouteUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable route file")
		return
	}

	route, err := ParseRoute(header.Filename, data)
	if err != nil {
		if errors.Is(err, ErrRouteParse) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, "route import failed")
		}
		return
	}

	a.view.SetRoute(route)
	logger.Info().Str("name", route.Name).Int("points", len(route.Coordinates)).Msg("route loaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   route.Name,
		"points": len(route.Coordinates),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
