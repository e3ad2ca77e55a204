// Package xmp resolves a single latitude/longitude pair from an XMP sidecar
// document. Geotagging tools disagree on which fields to use, so resolution
// is modelled as an ordered list of alias strategies tried in priority
// order, with the first alias that yields both coordinates winning.
package xmp

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoCoordinates is returned when none of the known field aliases resolve
// a latitude/longitude pair.
var ErrNoCoordinates = errors.New("No geotag coordinates resolved")

type alias struct {
	space string
	lat   string
	lon   string
}

// Aliases in priority order. The WGS-84 geo vocabulary wins over the EXIF
// namespace which wins over the Adobe XMP namespace.
var aliases = []alias{
	{"http://www.w3.org/2003/01/geo/wgs84_pos#", "lat", "lon"},
	{"http://www.w3.org/2003/04/exif/ns#", "GPSLatitude", "GPSLongitude"},
	{"http://ns.adobe.com/xap/1.0/", "Latitude", "Longitude"},
}

// Coordinates scans an XMP document for a latitude/longitude pair using the
// known alias strategies. It returns (lat, lon) in decimal degrees,
// ErrNoCoordinates when nothing resolves, or a parse error when the winning
// alias holds a non-numeric value.
func Coordinates(body []byte) (float64, float64, error) {

	values, err := collectElementText(body)

	if err != nil {
		return 0, 0, fmt.Errorf("Failed to parse XMP document, %w", err)
	}

	for _, a := range aliases {

		lat_raw, lat_ok := values[xml.Name{Space: a.space, Local: a.lat}]
		lon_raw, lon_ok := values[xml.Name{Space: a.space, Local: a.lon}]

		if !lat_ok || !lon_ok {
			continue
		}

		lat, err := strconv.ParseFloat(lat_raw, 64)

		if err != nil {
			return 0, 0, fmt.Errorf("Failed to parse latitude '%s', %w", lat_raw, err)
		}

		lon, err := strconv.ParseFloat(lon_raw, 64)

		if err != nil {
			return 0, 0, fmt.Errorf("Failed to parse longitude '%s', %w", lon_raw, err)
		}

		return lat, lon, nil
	}

	return 0, 0, ErrNoCoordinates
}

// collectElementText walks the document once and records the trimmed
// character data of the first occurrence of every (namespace, local name)
// element.
func collectElementText(body []byte) (map[xml.Name]string, error) {

	values := make(map[xml.Name]string)

	decoder := xml.NewDecoder(bytes.NewReader(body))

	var current xml.Name
	var text strings.Builder

	for {

		tok, err := decoder.Token()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:

			if t.Name == current {

				value := strings.TrimSpace(text.String())

				_, seen := values[current]

				if value != "" && !seen {
					values[current] = value
				}
			}

			current = xml.Name{}
			text.Reset()
		}
	}

	return values, nil
}
