package geo

import (
	"math"
)

// EarthRadiusKm is the spherical earth radius used for all great-circle math.
const EarthRadiusKm = 6371.0

// Record is a single location (and optional capture time) sample extracted
// from a photograph. Records are immutable once extracted and belong to the
// directory batch that produced them.
type Record struct {
	// The identifier for the source photograph, typically its filename.
	ID string `json:"id"`
	// Latitude in unprojected WGS-84 degrees, in the range -90..90.
	Latitude float64 `json:"latitude"`
	// Longitude in unprojected WGS-84 degrees, in the range -180..180.
	Longitude float64 `json:"longitude"`
	// The raw EXIF capture datetime ("2006:01:02 15:04:05") carried through
	// as an opaque string, or empty when the source had no capture time.
	CapturedAt string `json:"captured_at,omitempty"`
}

// DistanceKm returns the great-circle distance between a and b in kilometres
// using the haversine formula. The function is symmetric and returns 0 for
// identical points. Coordinates are assumed to have been validated upstream.
func DistanceKm(a Record, b Record) float64 {

	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)

	dlat := radians(b.Latitude - a.Latitude)
	dlon := radians(b.Longitude - a.Longitude)

	sin_dlat := math.Sin(dlat / 2)
	sin_dlon := math.Sin(dlon / 2)

	h := sin_dlat*sin_dlat + math.Cos(lat1)*math.Cos(lat2)*sin_dlon*sin_dlon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
