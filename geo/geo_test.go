package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {

	paris := Record{ID: "paris.jpg", Latitude: 48.8566, Longitude: 2.3522}
	london := Record{ID: "london.jpg", Latitude: 51.5074, Longitude: -0.1278}

	tests := []struct {
		name     string
		a        Record
		b        Record
		expected float64
	}{
		{"identical points", paris, paris, 0.0},
		{"one degree of latitude", Record{Latitude: 0.0}, Record{Latitude: 1.0}, 111.1949},
		{"paris to london", paris, london, 343.5},
	}

	for _, tt := range tests {

		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceKm(tt.a, tt.b), 0.5)
		})
	}
}

func TestDistanceKmSymmetry(t *testing.T) {

	a := Record{Latitude: 35.6586, Longitude: 139.7454}
	b := Record{Latitude: -33.8568, Longitude: 151.2153}

	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
}
