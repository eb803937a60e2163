package main

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrRouteParse marks a rejected route upload.
var ErrRouteParse = errors.New("route parse error")

var validate = validator.New()

// ParseRoute turns an uploaded file into a Route. GPX is picked by extension,
// anything else is treated as GeoJSON. Parsed routes are validated before
// being accepted: a name, at least two vertices, coordinates in range.
func ParseRoute(filename string, data []byte) (Route, error) {
	var (
		route Route
		err   error
	)
	if strings.EqualFold(filepath.Ext(filename), ".gpx") {
		route, err = parseGPX(data)
	} else {
		route, err = parseGeoJSON(data)
	}
	if err != nil {
		return Route{}, err
	}
	if route.Name == "" {
		route.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if err := validate.Struct(route); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrRouteParse, err)
	}
	return route, nil
}

// GPX: points come from track segments or, for planned-route exports, from
// rte/rtept.
type gpxFile struct {
	Trk []gpxTrk `xml:"trk"`
	Rte []gpxRte `xml:"rte"`
}

type gpxTrk struct {
	Name string   `xml:"name"`
	Seg  []gpxSeg `xml:"trkseg"`
}

type gpxSeg struct {
	Pt []gpxPt `xml:"trkpt"`
}

type gpxRte struct {
	Name string  `xml:"name"`
	Pt   []gpxPt `xml:"rtept"`
}

type gpxPt struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

func parseGPX(data []byte) (Route, error) {
	var g gpxFile
	if err := xml.Unmarshal(data, &g); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrRouteParse, err)
	}
	var route Route
	for _, tr := range g.Trk {
		if route.Name == "" {
			route.Name = tr.Name
		}
		for _, seg := range tr.Seg {
			for _, p := range seg.Pt {
				route.Coordinates = append(route.Coordinates, RoutePoint{Lon: p.Lon, Lat: p.Lat})
			}
		}
	}
	for _, rt := range g.Rte {
		if route.Name == "" {
			route.Name = rt.Name
		}
		for _, p := range rt.Pt {
			route.Coordinates = append(route.Coordinates, RoutePoint{Lon: p.Lon, Lat: p.Lat})
		}
	}
	if len(route.Coordinates) == 0 {
		return Route{}, fmt.Errorf("%w: no track or route points in GPX", ErrRouteParse)
	}
	return route, nil
}

// GeoJSON: accepts a FeatureCollection, a single Feature or a bare LineString
// geometry.
type geoJSONDocument struct {
	Type       string           `json:"type"`
	Features   []geoJSONFeature `json:"features"`
	Properties map[string]any   `json:"properties"`
	Geometry   *geoJSONGeometry `json:"geometry"`
	// set when the document itself is a geometry
	Coordinates []RoutePoint `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates []RoutePoint `json:"coordinates"`
}

func parseGeoJSON(data []byte) (Route, error) {
	var doc geoJSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrRouteParse, err)
	}

	switch doc.Type {
	case "FeatureCollection":
		for _, f := range doc.Features {
			if f.Geometry.Type != "LineString" {
				continue
			}
			return Route{Name: featureName(f.Properties), Coordinates: f.Geometry.Coordinates}, nil
		}
		return Route{}, fmt.Errorf("%w: no LineString feature in collection", ErrRouteParse)
	case "Feature":
		if doc.Geometry == nil || doc.Geometry.Type != "LineString" {
			return Route{}, fmt.Errorf("%w: feature geometry is not a LineString", ErrRouteParse)
		}
		return Route{Name: featureName(doc.Properties), Coordinates: doc.Geometry.Coordinates}, nil
	case "LineString":
		return Route{Coordinates: doc.Coordinates}, nil
	default:
		return Route{}, fmt.Errorf("%w: unsupported GeoJSON type %q", ErrRouteParse, doc.Type)
	}
}

func featureName(props map[string]any) string {
	if s, ok := props["name"].(string); ok {
		return s
	}
	return ""
}
