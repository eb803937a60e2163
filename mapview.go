package main

import (
	"sync"
	"sync/atomic"
)

// MapView is the narrow slice of a map the sync loop and route import rely
// on. Implementations must tolerate calls before the map is ready by doing
// nothing, never by returning errors.
type MapView interface {
	// Ready reports whether a live map has signalled readiness.
	Ready() bool
	// SetCenter re-centers the viewport on a coordinate.
	SetCenter(lon, lat float64)
	// SetMarker repositions the live device marker.
	SetMarker(lon, lat float64)
	// AppendTrack appends one point to the tracking-history line source.
	AppendTrack(p RoutePoint)
	// SetRoute replaces the route line source wholesale.
	SetRoute(r Route)
}

// wsMapView drives browser maps over the websocket hub. It mirrors the layer
// coordinate lists server-side so a newly connected client can be replayed
// the full picture, and so an append is a read-modify-write of the source
// data rather than a fire-and-forget event.
type wsMapView struct {
	hub        *wsHub
	historyMax int // 0 = unbounded

	ready atomic.Bool

	mu     sync.Mutex
	center *RoutePoint
	marker *RoutePoint
	track  []RoutePoint
	route  *Route
}

func newWSMapView(hub *wsHub, historyMax int) *wsMapView {
	return &wsMapView{hub: hub, historyMax: historyMax}
}

// markReady flips the view live. Called once the first browser map has
// finished loading; the view stays ready even if every client disconnects.
func (m *wsMapView) markReady() {
	m.ready.Store(true)
}

func (m *wsMapView) Ready() bool {
	return m.ready.Load()
}

func (m *wsMapView) SetCenter(lon, lat float64) {
	if !m.ready.Load() {
		return
	}
	m.mu.Lock()
	m.center = &RoutePoint{Lon: lon, Lat: lat}
	m.mu.Unlock()
	m.hub.broadcast(mapCommand{Type: "center", Lon: lon, Lat: lat})
}

func (m *wsMapView) SetMarker(lon, lat float64) {
	if !m.ready.Load() {
		return
	}
	m.mu.Lock()
	m.marker = &RoutePoint{Lon: lon, Lat: lat}
	m.mu.Unlock()
	m.hub.broadcast(mapCommand{Type: "marker", Lon: lon, Lat: lat})
}

func (m *wsMapView) AppendTrack(p RoutePoint) {
	if !m.ready.Load() {
		return
	}
	m.mu.Lock()
	coords := append(m.track, p)
	if m.historyMax > 0 && len(coords) > m.historyMax {
		coords = coords[len(coords)-m.historyMax:]
	}
	m.track = coords
	snapshot := append([]RoutePoint(nil), coords...)
	m.mu.Unlock()

	trackPoints.Set(float64(len(snapshot)))
	m.hub.broadcast(mapCommand{Type: "source", Source: sourceTrack, Coordinates: snapshot})
}

func (m *wsMapView) SetRoute(r Route) {
	if !m.ready.Load() {
		return
	}
	m.mu.Lock()
	m.route = &r
	m.mu.Unlock()

	routePoints.Set(float64(len(r.Coordinates)))
	m.hub.broadcast(mapCommand{
		Type:        "source",
		Source:      sourceRoute,
		Name:        r.Name,
		Coordinates: r.Coordinates,
	})
}

// TrackLen reports the current tracking-history length.
func (m *wsMapView) TrackLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.track)
}

// snapshotCommands rebuilds the full map state for a newly connected client:
// both line sources first, then marker and center so the viewport ends up on
// the latest observation.
func (m *wsMapView) snapshotCommands() []mapCommand {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cmds []mapCommand
	if m.route != nil {
		cmds = append(cmds, mapCommand{
			Type:        "source",
			Source:      sourceRoute,
			Name:        m.route.Name,
			Coordinates: m.route.Coordinates,
		})
	}
	if len(m.track) > 0 {
		cmds = append(cmds, mapCommand{
			Type:        "source",
			Source:      sourceTrack,
			Coordinates: append([]RoutePoint(nil), m.track...),
		})
	}
	if m.marker != nil {
		cmds = append(cmds, mapCommand{Type: "marker", Lon: m.marker.Lon, Lat: m.marker.Lat})
	}
	if m.center != nil {
		cmds = append(cmds, mapCommand{Type: "center", Lon: m.center.Lon, Lat: m.center.Lat})
	}
	return cmds
}
