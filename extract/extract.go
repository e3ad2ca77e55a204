// Package extract is the EXIF-extraction boundary: it turns photo files
// stored in a blob.Bucket into geo.Record values. A photo yields a record
// only when it carries both a latitude and a longitude; capture times are
// carried through as opaque strings the rest of the pipeline never parses.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/sfomuseum/go-photo-cluster/geo"
	"gocloud.dev/blob"
)

var register_parsers sync.Once

// Failure records one photo that could not be processed.
type Failure struct {
	Key string
	Err error
}

// Result is the outcome of extracting one directory's batch of photos.
type Result struct {
	// Records for photos that carried GPS coordinates, in input order.
	Records []geo.Record
	// NoGPS counts photos that decoded fine but carried no coordinates.
	NoGPS int
	// Failures holds photos that could not be read or decoded. These are
	// recovered locally; a failure never aborts the batch.
	Failures []Failure
}

// IsPhoto reports whether the key names a candidate photo file.
func IsPhoto(key string) bool {

	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// Records extracts GPS records for the given photo keys, one at a time, in
// order. Per-photo failures are captured in the result rather than
// returned; only context cancellation stops the batch early.
func Records(ctx context.Context, bucket *blob.Bucket, keys []string) (*Result, error) {

	result := &Result{
		Records:  make([]geo.Record, 0, len(keys)),
		Failures: make([]Failure, 0),
	}

	for _, key := range keys {

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
			// pass
		}

		record, err := GPSRecord(ctx, bucket, key)

		if err != nil {

			result.Failures = append(result.Failures, Failure{
				Key: key,
				Err: err,
			})

			continue
		}

		if record == nil {
			result.NoGPS += 1
			continue
		}

		result.Records = append(result.Records, *record)
	}

	return result, nil
}

// GPSRecord reads one photo and returns its GPS record, or nil when the
// photo carries no coordinates. The record's identifier is the photo's base
// filename; the capture time comes from the DateTimeOriginal tag with
// DateTime as a fallback, and stays empty when neither is present.
func GPSRecord(ctx context.Context, bucket *blob.Bucket, key string) (*geo.Record, error) {

	register_parsers.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	fh, err := bucket.NewReader(ctx, key, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s for reading, %w", key, err)
	}

	defer fh.Close()

	ex, err := exif.Decode(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to decode EXIF data for %s, %w", key, err)
	}

	lat, lon, err := ex.LatLong()

	if err != nil {
		return nil, nil
	}

	record := &geo.Record{
		ID:         filepath.Base(key),
		Latitude:   lat,
		Longitude:  lon,
		CapturedAt: captureTime(ex),
	}

	return record, nil
}

func captureTime(ex *exif.Exif) string {

	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {

		tag, err := ex.Get(name)

		if err != nil {
			continue
		}

		str, err := tag.StringVal()

		if err != nil {
			continue
		}

		return str
	}

	return ""
}
