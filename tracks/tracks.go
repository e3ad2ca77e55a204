// Package tracks converts point geometries into degenerate line geometries
// ("tracks") so renderers that only draw line geometry can still display
// photo locations.
package tracks

import (
	"strconv"
	"strings"

	"github.com/sfomuseum/go-photo-cluster/kml"
)

// Offset is the fixed delta, in degrees, between a track's origin vertex and
// its end vertex: roughly 0.1 m at the equator. A photograph has no motion
// extent so an exact two-identical-point line would be degenerate; the
// offset keeps the line legal while reading as a point at normal map zoom.
const Offset = 0.000001

// DocumentTitle is the fixed title of the consolidated track document.
const DocumentTitle = "Converted Tracks"

// StyleID names the single shared line style every track references.
const StyleID = "track"

// Entry is one synthesized track: a two-vertex line derived from a single
// point geometry, plus carried-through display metadata.
type Entry struct {
	// Name is the display name carried through from the source placemark,
	// or empty.
	Name string
	// Description is carried through from the source, typically a
	// timestamp, or empty.
	Description string
	OriginLon   float64
	OriginLat   float64
	// OffsetLon is exactly OriginLon + Offset.
	OffsetLon float64
	// OffsetLat is exactly OriginLat + Offset.
	OffsetLat float64
}

// Synthesize converts one point geometry into a track entry. Deterministic
// and pure: the end vertex is offset from the origin by exactly Offset in
// both axes and the metadata is carried through unchanged.
func Synthesize(name string, description string, lon float64, lat float64) Entry {

	return Entry{
		Name:        name,
		Description: description,
		OriginLon:   lon,
		OriginLat:   lat,
		OffsetLon:   lon + Offset,
		OffsetLat:   lat + Offset,
	}
}

// Document accumulates track entries in document-then-entry order and
// serializes them once, at the end, as a single consolidated KML document.
// Entries are never deduplicated.
type Document struct {
	entries []Entry
}

func NewDocument() *Document {

	return &Document{
		entries: make([]Entry, 0),
	}
}

func (d *Document) Append(e Entry) {
	d.entries = append(d.entries, e)
}

func (d *Document) Len() int {
	return len(d.entries)
}

func (d *Document) Entries() []Entry {
	return d.entries
}

// MarshalKML serializes the accumulated entries: a document titled
// "Converted Tracks" with one shared solid red width-3 line style and a
// "Tracks" folder holding one line placemark per entry, tessellated and
// clamped to ground.
func (d *Document) MarshalKML() ([]byte, error) {

	placemarks := make([]kml.Placemark, len(d.entries))

	for i, e := range d.entries {

		placemarks[i] = kml.Placemark{
			Name:        e.Name,
			Description: e.Description,
			StyleURL:    "#" + StyleID,
			LineString: &kml.LineString{
				Tessellate:   1,
				AltitudeMode: "clampedToGround",
				Coordinates:  lineCoordinates(e),
			},
		}
	}

	doc := &kml.KML{
		Xmlns: kml.Namespace,
		Document: kml.Document{
			Name: DocumentTitle,
			Styles: []kml.Style{
				{
					ID: StyleID,
					LineStyle: &kml.LineStyle{
						Color: "ff0000ff",
						Width: 3,
					},
				},
			},
			Folders: []kml.Folder{
				{
					Name:       "Tracks",
					Placemarks: placemarks,
				},
			},
		},
	}

	return doc.Marshal()
}

func lineCoordinates(e Entry) string {

	vertices := []string{
		formatVertex(e.OriginLon, e.OriginLat),
		formatVertex(e.OffsetLon, e.OffsetLat),
	}

	return strings.Join(vertices, " ")
}

func formatVertex(lon float64, lat float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64) + ",0"
}
