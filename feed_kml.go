package main

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Feed error kinds. The tracker classifies tick failures with errors.Is and
// turns them into the banner message shown in the UI.
var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrMalformedFeed      = errors.New("malformed feed")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// FeedSource produces the latest observed position of the tracked device.
type FeedSource interface {
	Fetch(ctx context.Context) (Location, error)
}

// KMLFeedSource reads a MapShare-style KML feed over HTTP. The feed is
// publicly reachable via its opaque share identifier; no auth header is sent.
type KMLFeedSource struct {
	url        string
	httpClient *http.Client
}

func NewKMLFeedSource(baseURL, shareID string, timeout time.Duration) *KMLFeedSource {
	return &KMLFeedSource{
		url:        strings.TrimRight(baseURL, "/") + "/" + shareID + "/kml",
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *KMLFeedSource) Fetch(ctx context.Context) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Location{}, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: http status %d", ErrFetchFailed, resp.StatusCode)
	}
	return parseKML(resp.Body)
}

// parseKML extracts the first placemark's coordinates and timestamp with a
// streaming token walk (namespace tolerant via Name.Local; MapShare documents
// mix the default and gx namespaces).
func parseKML(r io.Reader) (Location, error) {
	dec := xml.NewDecoder(r)

	var (
		inPlacemark bool
		inTimeStamp bool
		coordText   string
		whenText    string
		done        bool
	)
	for !done {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Location{}, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "Placemark":
				inPlacemark = true
				// a placemark must carry both nodes itself; values never
				// combine across placemarks
				coordText, whenText = "", ""
			case "TimeStamp":
				if inPlacemark {
					inTimeStamp = true
				}
			case "when":
				if inTimeStamp && whenText == "" {
					var v string
					if err := dec.DecodeElement(&v, &se); err == nil {
						whenText = strings.TrimSpace(v)
					}
				}
			case "coordinates":
				if inPlacemark && coordText == "" {
					var v string
					if err := dec.DecodeElement(&v, &se); err == nil {
						coordText = strings.TrimSpace(v)
					}
				}
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "TimeStamp":
				inTimeStamp = false
			case "Placemark":
				if inPlacemark {
					inPlacemark = false
					// first placemark with both nodes wins
					if coordText != "" && whenText != "" {
						done = true
					}
				}
			}
		}
	}
	if coordText == "" || whenText == "" {
		return Location{}, fmt.Errorf("%w: placemark missing coordinates or timestamp", ErrMalformedFeed)
	}

	lon, lat, err := parseCoordinates(coordText)
	if err != nil {
		return Location{}, err
	}
	ts, err := time.Parse(time.RFC3339, whenText)
	if err != nil {
		return Location{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedFeed, whenText)
	}
	return Location{Lat: lat, Lon: lon, Timestamp: &ts}, nil
}

// parseCoordinates splits a KML "lon,lat[,alt]" tuple.
func parseCoordinates(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	return lon, lat, nil
}
