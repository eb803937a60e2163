package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mapshare"

// ticksTotal counts sync ticks by outcome.
// Label:
//   - result: "ok", "not_configured", "fetch_failed", "malformed_feed",
//     "invalid_coordinates" or "error"
var ticksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "ticks_total",
		Help:      "Total number of sync ticks, labelled by outcome.",
	},
	[]string{"result"},
)

// feedFetchDuration measures the fetch+parse time of one tick.
var feedFetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "feed_fetch_duration_seconds",
		Help:      "Duration of the feed fetch and parse per tick.",
		Buckets:   prometheus.DefBuckets,
	},
)

// trackPoints tracks the current tracking-history length.
var trackPoints = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "track_points",
		Help:      "Current number of points in the tracking-history source.",
	},
)

// routePoints tracks the size of the loaded planned route.
var routePoints = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "route_points",
		Help:      "Number of points in the currently loaded route.",
	},
)

// wsClients tracks connected browser maps.
var wsClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "ws_clients",
		Help:      "Currently connected websocket clients.",
	},
)
