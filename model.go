package main

import (
	"encoding/json"
	"fmt"
	"time"
)

// Location is the most recent observation of the tracked device. There is no
// identity beyond "latest": each successful sync tick overwrites it.
type Location struct {
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// RoutePoint is a single vertex, marshalled as a GeoJSON position [lon, lat].
type RoutePoint struct {
	Lon float64 `validate:"gte=-180,lte=180"`
	Lat float64 `validate:"gte=-90,lte=90"`
}

func (p RoutePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lon, p.Lat})
}

func (p *RoutePoint) UnmarshalJSON(b []byte) error {
	var raw []float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("position needs lon and lat, got %d values", len(raw))
	}
	p.Lon, p.Lat = raw[0], raw[1]
	return nil
}

// Route is a user-supplied planned path. Immutable once parsed; rendered as
// its own line layer, never touched by the sync loop.
type Route struct {
	Name        string       `json:"name" validate:"required"`
	Coordinates []RoutePoint `json:"coordinates" validate:"min=2,dive"`
}

// Named line sources on the map. The sync loop appends to the tracking
// history; route uploads replace the route source wholesale.
const (
	sourceRoute = "route"
	sourceTrack = "tracking-history"
)

// mapCommand is one incremental update sent to connected browser maps.
type mapCommand struct {
	Type        string       `json:"type"` // center | marker | source
	Lon         float64      `json:"lon,omitempty"`
	Lat         float64      `json:"lat,omitempty"`
	Source      string       `json:"source,omitempty"`
	Name        string       `json:"name,omitempty"`
	Coordinates []RoutePoint `json:"coordinates,omitempty"`
}
