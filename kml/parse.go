package kml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// PointEntry is one point placemark read back out of a previously written
// point document.
type PointEntry struct {
	Name string
	// When is the placemark's normalized timestamp, or empty.
	When string
	Lon  float64
	Lat  float64
}

// ParsePoints extracts the point placemarks from a KML document, in document
// order, walking both top-level placemarks and those nested in folders.
// Placemarks without point geometry are ignored. A malformed document or a
// non-numeric coordinate is an error; callers skip the whole document.
func ParsePoints(body []byte) ([]PointEntry, error) {

	var doc KML

	err := xml.Unmarshal(body, &doc)

	if err != nil {
		return nil, fmt.Errorf("Failed to unmarshal KML document, %w", err)
	}

	placemarks := make([]Placemark, 0, len(doc.Document.Placemarks))
	placemarks = append(placemarks, doc.Document.Placemarks...)

	for _, f := range doc.Document.Folders {
		placemarks = append(placemarks, f.Placemarks...)
	}

	entries := make([]PointEntry, 0, len(placemarks))

	for _, pm := range placemarks {

		if pm.Point == nil {
			continue
		}

		lon, lat, err := parseCoordinates(pm.Point.Coordinates)

		if err != nil {
			return nil, err
		}

		entry := PointEntry{
			Name: pm.Name,
			Lon:  lon,
			Lat:  lat,
		}

		if pm.TimeStamp != nil {
			entry.When = pm.TimeStamp.When
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// parseCoordinates splits a "lon,lat[,alt]" tuple. The altitude, if present,
// is discarded.
func parseCoordinates(raw string) (float64, float64, error) {

	parts := strings.Split(strings.TrimSpace(raw), ",")

	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("Invalid coordinates tuple '%s'", raw)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)

	if err != nil {
		return 0, 0, fmt.Errorf("Failed to parse longitude from '%s', %w", raw, err)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)

	if err != nil {
		return 0, 0, fmt.Errorf("Failed to parse latitude from '%s', %w", raw, err)
	}

	return lon, lat, nil
}
