package xmp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sidecar(ns string, lat_el string, lat string, lon_el string, lon string) []byte {

	return []byte(fmt.Sprintf(`<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description xmlns:g="%s">
      <g:%s>%s</g:%s>
      <g:%s>%s</g:%s>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>`, ns, lat_el, lat, lat_el, lon_el, lon, lon_el))
}

func TestCoordinatesAliases(t *testing.T) {

	tests := []struct {
		name string
		body []byte
	}{
		{
			"wgs84 geo vocabulary",
			sidecar("http://www.w3.org/2003/01/geo/wgs84_pos#", "lat", "48.8584", "lon", "2.2945"),
		},
		{
			"exif namespace",
			sidecar("http://www.w3.org/2003/04/exif/ns#", "GPSLatitude", "48.8584", "GPSLongitude", "2.2945"),
		},
		{
			"adobe xmp namespace",
			sidecar("http://ns.adobe.com/xap/1.0/", "Latitude", "48.8584", "Longitude", "2.2945"),
		},
	}

	for _, tt := range tests {

		t.Run(tt.name, func(t *testing.T) {

			lat, lon, err := Coordinates(tt.body)

			require.NoError(t, err)
			assert.Equal(t, 48.8584, lat)
			assert.Equal(t, 2.2945, lon)
		})
	}
}

func TestCoordinatesPriority(t *testing.T) {

	// Both the geo vocabulary and the EXIF namespace are present; the geo
	// vocabulary wins.

	body := []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description xmlns:geo="http://www.w3.org/2003/01/geo/wgs84_pos#" xmlns:exif="http://www.w3.org/2003/04/exif/ns#">
      <exif:GPSLatitude>1.0</exif:GPSLatitude>
      <exif:GPSLongitude>2.0</exif:GPSLongitude>
      <geo:lat>48.8584</geo:lat>
      <geo:lon>2.2945</geo:lon>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>`)

	lat, lon, err := Coordinates(body)

	require.NoError(t, err)
	assert.Equal(t, 48.8584, lat)
	assert.Equal(t, 2.2945, lon)
}

func TestCoordinatesPartialAlias(t *testing.T) {

	// A latitude without its matching longitude does not resolve; the next
	// alias (here, none) is consulted instead.

	body := []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description xmlns:geo="http://www.w3.org/2003/01/geo/wgs84_pos#">
      <geo:lat>48.8584</geo:lat>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>`)

	_, _, err := Coordinates(body)
	assert.ErrorIs(t, err, ErrNoCoordinates)
}

func TestCoordinatesNone(t *testing.T) {

	body := []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/></x:xmpmeta>`)

	_, _, err := Coordinates(body)
	assert.ErrorIs(t, err, ErrNoCoordinates)
}

func TestCoordinatesNonNumeric(t *testing.T) {

	body := sidecar("http://www.w3.org/2003/01/geo/wgs84_pos#", "lat", "north", "lon", "2.2945")

	_, _, err := Coordinates(body)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCoordinates)
}

func TestCoordinatesMalformed(t *testing.T) {

	_, _, err := Coordinates([]byte("<unclosed"))
	assert.Error(t, err)
}
