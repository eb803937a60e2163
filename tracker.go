package main

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errShareIDMissing = errors.New("MapShare ID not configured")

// Status is the observable tracker state: what the position label, error
// banner and status endpoint read.
type Status struct {
	Tracking  bool      `json:"tracking"`
	Location  *Location `json:"location,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	Ticks     int64     `json:"ticks"`
	Successes int64     `json:"successes"`
	Failures  int64     `json:"failures"`
}

// Tracker is the location-sync loop. Idle until started, then one fetch per
// interval. Ticks are independent: a failure sets the error banner and
// changes nothing else, and the next success clears it. No backoff, no
// jitter, no retry cutoff; the loop runs until explicitly stopped.
type Tracker struct {
	feed     FeedSource
	view     MapView
	shareID  string
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(feed FeedSource, shareID string, view MapView, interval, timeout time.Duration) *Tracker {
	return &Tracker{
		feed:     feed,
		view:     view,
		shareID:  shareID,
		interval: interval,
		timeout:  timeout,
	}
}

// Toggle flips between Idle and Tracking and reports the new state.
func (t *Tracker) Toggle() bool {
	t.mu.Lock()
	if t.status.Tracking {
		done := t.stopLocked()
		t.mu.Unlock()
		<-done
		return false
	}
	t.startLocked()
	t.mu.Unlock()
	return true
}

// Start begins tracking. No-op if already tracking.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.status.Tracking {
		t.startLocked()
	}
}

// Stop cancels the repeating timer and waits for the loop goroutine to exit.
// A tick already past its fetch is not aborted; its result is still applied
// before Stop returns, so ticks stay serialized across a stop/start cycle.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.status.Tracking {
		t.mu.Unlock()
		return
	}
	done := t.stopLocked()
	t.mu.Unlock()
	<-done
}

func (t *Tracker) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	t.status.Tracking = true
	go t.run(ctx, t.done)
	logger.Info().Dur("interval", t.interval).Msg("tracking started")
}

// stopLocked cancels the loop and hands back its done channel; the caller
// joins on it after releasing the mutex (the loop needs the mutex to finish
// an in-flight tick).
func (t *Tracker) stopLocked() <-chan struct{} {
	t.cancel()
	t.cancel = nil
	t.status.Tracking = false
	logger.Info().Msg("tracking stopped")
	return t.done
}

// run fires ticks on a fixed cadence until cancelled. The first tick fires
// only after a full interval, so starting and immediately stopping issues no
// fetch at all. Ticks cannot overlap: each runs to completion on this
// goroutine before the ticker is read again.
func (t *Tracker) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// tick performs one fetch-parse-apply cycle. The fetch context is detached
// from the loop context on purpose: stopping tracking does not abort an
// in-flight fetch, and a late result is still applied.
func (t *Tracker) tick() {
	t.mu.Lock()
	t.status.Ticks++
	t.mu.Unlock()

	if t.shareID == "" {
		t.fail(errShareIDMissing)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	start := time.Now()
	loc, err := t.feed.Fetch(ctx)
	feedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		t.fail(err)
		return
	}
	t.apply(loc)
}

// fail records a tick failure. Location and the map are left untouched; the
// banner persists until the next successful tick.
func (t *Tracker) fail(err error) {
	t.mu.Lock()
	t.status.Failures++
	t.status.LastError = err.Error()
	t.mu.Unlock()
	ticksTotal.WithLabelValues(tickResult(err)).Inc()
	logger.Warn().Err(err).Msg("sync tick failed")
}

// apply records a successful observation and pushes it through the map view:
// re-center, reposition the marker, append one point to the tracking history.
func (t *Tracker) apply(loc Location) {
	t.mu.Lock()
	t.status.Successes++
	t.status.Location = &loc
	t.status.LastError = ""
	t.mu.Unlock()
	ticksTotal.WithLabelValues("ok").Inc()

	t.view.SetCenter(loc.Lon, loc.Lat)
	t.view.SetMarker(loc.Lon, loc.Lat)
	t.view.AppendTrack(RoutePoint{Lon: loc.Lon, Lat: loc.Lat})
	logger.Info().Float64("lat", loc.Lat).Float64("lon", loc.Lon).Msg("position updated")
}

// Snapshot returns a copy of the current status.
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func tickResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errShareIDMissing):
		return "not_configured"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, ErrMalformedFeed):
		return "malformed_feed"
	case errors.Is(err, ErrInvalidCoordinates):
		return "invalid_coordinates"
	default:
		return "error"
	}
}
