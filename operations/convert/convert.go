// Package convert implements the track pass: previously written point
// documents (and any XMP geotag sidecars) in the consolidated output
// location are re-read and collapsed into one consolidated track document.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sfomuseum/go-photo-cluster/common"
	"github.com/sfomuseum/go-photo-cluster/kml"
	"github.com/sfomuseum/go-photo-cluster/namer"
	"github.com/sfomuseum/go-photo-cluster/operations/process"
	"github.com/sfomuseum/go-photo-cluster/tracks"
	"github.com/sfomuseum/go-photo-cluster/xmp"
	"github.com/whosonfirst/go-writer/v3"
	"gocloud.dev/blob"
)

// XMPDescription is assigned to track entries derived from XMP sidecars,
// which carry no timestamp of their own.
const XMPDescription = "Coordinates extracted from XMP metadata"

// Options configures a track conversion pass.
type Options struct {
	// Bucket is the consolidated output location, scanned non-recursively.
	Bucket *blob.Bucket
	// Writer publishes the consolidated track document into the same
	// location.
	Writer writer.Writer
	Run    process.RunContext
}

// ConvertTracks scans the output location for point documents (.kml) and
// geotag sidecars (.xmp), synthesizes a track entry for every point, and
// writes one consolidated track document named after the processing root
// and the run timestamp. A document that fails to parse is skipped with a
// diagnostic; the pass continues. The returned string is the written
// document's path, or empty when there was nothing to convert.
func ConvertTracks(ctx context.Context, opts *Options) (string, error) {

	if opts.Bucket == nil {
		return "", errors.New("Missing bucket")
	}

	if opts.Writer == nil {
		return "", errors.New("Missing writer")
	}

	logger := slog.Default()

	doc := tracks.NewDocument()
	candidates := 0

	iter := opts.Bucket.List(&blob.ListOptions{
		Delimiter: "/",
	})

	for {

		obj, err := iter.Next(ctx)

		if err == io.EOF {
			break
		}

		if err != nil {
			return "", fmt.Errorf("Failed to list output location, %w", err)
		}

		if obj.IsDir {
			continue
		}

		switch strings.ToLower(filepath.Ext(obj.Key)) {
		case ".kml":

			candidates += 1

			err := appendPointDocument(ctx, opts.Bucket, obj.Key, doc)

			if err != nil {
				logger.Warn("Skipping KML document", "key", obj.Key, "error", err)
			}

		case ".xmp":

			candidates += 1

			err := appendSidecar(ctx, opts.Bucket, obj.Key, doc)

			if err != nil {
				logger.Warn("Skipping XMP document", "key", obj.Key, "error", err)
			}

		default:
			// pass
		}
	}

	if candidates == 0 {
		logger.Info("No KML or XMP documents found, nothing to convert")
		return "", nil
	}

	body, err := doc.MarshalKML()

	if err != nil {
		return "", fmt.Errorf("Failed to marshal track document, %w", err)
	}

	track_name := fmt.Sprintf("%s_%s.kml", filepath.Base(opts.Run.Root), opts.Run.Timestamp.Format(namer.TimestampLayout))

	err = common.WriteBytes(ctx, opts.Writer, track_name, body)

	if err != nil {
		return "", err
	}

	logger.Info("Wrote track document", "key", track_name, "tracks", doc.Len())

	return track_name, nil
}

func appendPointDocument(ctx context.Context, bucket *blob.Bucket, key string, doc *tracks.Document) error {

	body, err := readAll(ctx, bucket, key)

	if err != nil {
		return err
	}

	entries, err := kml.ParsePoints(body)

	if err != nil {
		return err
	}

	for _, e := range entries {
		doc.Append(tracks.Synthesize(e.Name, e.When, e.Lon, e.Lat))
	}

	return nil
}

func appendSidecar(ctx context.Context, bucket *blob.Bucket, key string, doc *tracks.Document) error {

	body, err := readAll(ctx, bucket, key)

	if err != nil {
		return err
	}

	lat, lon, err := xmp.Coordinates(body)

	if err != nil {
		return err
	}

	doc.Append(tracks.Synthesize(filepath.Base(key), XMPDescription, lon, lat))

	return nil
}

func readAll(ctx context.Context, bucket *blob.Bucket, key string) ([]byte, error) {

	fh, err := bucket.NewReader(ctx, key, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s for reading, %w", key, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", key, err)
	}

	return body, nil
}
