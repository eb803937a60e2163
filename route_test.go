package main

import (
	"errors"
	"testing"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Ridge traverse</name>
    <trkseg>
      <trkpt lat="52.52" lon="13.405"></trkpt>
      <trkpt lat="52.53" lon="13.410"></trkpt>
      <trkpt lat="52.54" lon="13.420"></trkpt>
    </trkseg>
  </trk>
</gpx>`

const sampleGPXRoute = `<?xml version="1.0"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <rte>
    <name>Planned descent</name>
    <rtept lat="47.0" lon="11.0"></rtept>
    <rtept lat="47.1" lon="11.1"></rtept>
  </rte>
</gpx>`

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Valley loop"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[13.405, 52.52], [13.410, 52.53], [13.420, 52.54]]
      }
    }
  ]
}`

func TestParseRouteGPXTrack(t *testing.T) {
	route, err := ParseRoute("ridge.gpx", []byte(sampleGPX))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if route.Name != "Ridge traverse" {
		t.Fatalf("unexpected name: %q", route.Name)
	}
	if len(route.Coordinates) != 3 {
		t.Fatalf("expected 3 points, got %d", len(route.Coordinates))
	}
	if route.Coordinates[0] != (RoutePoint{Lon: 13.405, Lat: 52.52}) {
		t.Fatalf("unexpected first point: %+v", route.Coordinates[0])
	}
}

func TestParseRouteGPXRoutePoints(t *testing.T) {
	route, err := ParseRoute("descent.gpx", []byte(sampleGPXRoute))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if route.Name != "Planned descent" || len(route.Coordinates) != 2 {
		t.Fatalf("unexpected route: %+v", route)
	}
}

func TestParseRouteGeoJSON(t *testing.T) {
	route, err := ParseRoute("valley.geojson", []byte(sampleGeoJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if route.Name != "Valley loop" {
		t.Fatalf("unexpected name: %q", route.Name)
	}
	if len(route.Coordinates) != 3 {
		t.Fatalf("expected 3 points, got %d", len(route.Coordinates))
	}
	if route.Coordinates[2] != (RoutePoint{Lon: 13.42, Lat: 52.54}) {
		t.Fatalf("unexpected last point: %+v", route.Coordinates[2])
	}
}

func TestParseRouteGeoJSONBareLineString(t *testing.T) {
	body := `{"type": "LineString", "coordinates": [[11.0, 47.0], [11.1, 47.1]]}`
	route, err := ParseRoute("uploaded.json", []byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// no name in the document: fall back to the file name
	if route.Name != "uploaded" {
		t.Fatalf("unexpected name: %q", route.Name)
	}
}

func TestParseRouteRejectsGarbage(t *testing.T) {
	cases := map[string]struct {
		filename string
		body     string
	}{
		"broken json":    {"r.json", `{"type": "FeatureCollection"`},
		"broken xml":     {"r.gpx", `<gpx><trk>`},
		"empty gpx":      {"r.gpx", `<gpx version="1.1" creator="t"></gpx>`},
		"point geometry": {"r.json", `{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 2]}}`},
		"no linestring":  {"r.json", `{"type": "FeatureCollection", "features": []}`},
		"single point":   {"r.json", `{"type": "LineString", "coordinates": [[11.0, 47.0]]}`},
		"lat range":      {"r.json", `{"type": "LineString", "coordinates": [[11.0, 95.0], [11.1, 47.1]]}`},
	}
	for name, tc := range cases {
		_, err := ParseRoute(tc.filename, []byte(tc.body))
		if !errors.Is(err, ErrRouteParse) {
			t.Fatalf("%s: expected route parse error, got %v", name, err)
		}
	}
}
