// Package kml defines typed models for the KML documents this module reads
// and writes. Documents are accumulated as in-memory values and serialized
// in a single pass; nothing here interleaves partial writes with traversal.
package kml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/sfomuseum/go-photo-cluster/geo"
)

// Namespace is the KML 2.2 XML namespace.
const Namespace = "http://www.opengis.net/kml/2.2"

// PointDocumentDescription is assigned to every point document this module
// emits.
const PointDocumentDescription = "GPS locations from photos"

type TimeStamp struct {
	When string `xml:"when"`
}

type Point struct {
	// Coordinates is a "lon,lat" pair.
	Coordinates string `xml:"coordinates"`
}

type LineString struct {
	Tessellate   int    `xml:"tessellate"`
	AltitudeMode string `xml:"altitudeMode"`
	// Coordinates is a space-separated list of "lon,lat,alt" vertices.
	Coordinates string `xml:"coordinates"`
}

type LineStyle struct {
	Color string `xml:"color"`
	Width int    `xml:"width"`
}

type Style struct {
	ID        string     `xml:"id,attr"`
	LineStyle *LineStyle `xml:"LineStyle,omitempty"`
}

type Placemark struct {
	Name        string      `xml:"name,omitempty"`
	TimeStamp   *TimeStamp  `xml:"TimeStamp,omitempty"`
	Description string      `xml:"description,omitempty"`
	StyleURL    string      `xml:"styleUrl,omitempty"`
	Point       *Point      `xml:"Point,omitempty"`
	LineString  *LineString `xml:"LineString,omitempty"`
}

type Folder struct {
	Name       string      `xml:"name"`
	Placemarks []Placemark `xml:"Placemark"`
}

type Document struct {
	Name        string      `xml:"name"`
	Description string      `xml:"description,omitempty"`
	Styles      []Style     `xml:"Style,omitempty"`
	Placemarks  []Placemark `xml:"Placemark,omitempty"`
	Folders     []Folder    `xml:"Folder,omitempty"`
}

type KML struct {
	XMLName  xml.Name `xml:"kml"`
	Xmlns    string   `xml:"xmlns,attr"`
	Document Document `xml:"Document"`
}

// NewPointDocument builds the point document for one retained group: a
// titled document holding one point placemark per record, in record order.
// Records with a capture time get a TimeStamp child with the normalized
// form of that time.
func NewPointDocument(title string, records []geo.Record) *KML {

	placemarks := make([]Placemark, len(records))

	for i, r := range records {

		pm := Placemark{
			Name: r.ID,
			Point: &Point{
				Coordinates: fmt.Sprintf("%s,%s", formatDegrees(r.Longitude), formatDegrees(r.Latitude)),
			},
		}

		if r.CapturedAt != "" {
			pm.TimeStamp = &TimeStamp{
				When: FormatTimestamp(r.CapturedAt),
			}
		}

		placemarks[i] = pm
	}

	return &KML{
		Xmlns: Namespace,
		Document: Document{
			Name:        title,
			Description: PointDocumentDescription,
			Placemarks:  placemarks,
		},
	}
}

// Marshal serializes the document in one pass, with an XML declaration and
// two-space indenting.
func (k *KML) Marshal() ([]byte, error) {

	body, err := xml.MarshalIndent(k, "", "  ")

	if err != nil {
		return nil, fmt.Errorf("Failed to marshal KML document, %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// FormatTimestamp normalizes a space-separated EXIF datetime
// ("2006:01:02 15:04:05") into the ISO-8601-like form KML expects
// ("2006-01-02T15:04:05Z"): the first two colons become hyphens, the space
// becomes a T and a Z is appended. No timezone conversion happens; the
// offset is asserted, not computed.
func FormatTimestamp(captured_at string) string {

	s := strings.Replace(captured_at, ":", "-", 2)
	s = strings.Replace(s, " ", "T", 1)

	return s + "Z"
}

// formatDegrees renders a coordinate with the shortest representation that
// round-trips.
func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
