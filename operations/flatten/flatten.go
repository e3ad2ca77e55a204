// Package flatten collapses a directory tree stored in a blob.Bucket: every
// object below the top level is moved to the top level, with filename
// collisions resolved by numeric suffixes. Buckets have no rename, so a
// move is a copy through a reader/writer pair followed by a delete.
package flatten

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"gocloud.dev/blob"
)

// Options configures a flatten pass.
type Options struct {
	Bucket *blob.Bucket
	// Dryrun logs the moves without performing them.
	Dryrun bool
	// PublicRead marks moved objects world-readable when the bucket is
	// backed by S3; ignored elsewhere.
	PublicRead bool
}

// Flatten moves every nested object in the bucket to the top level. Name
// collisions with existing top-level objects (or earlier moves) are
// resolved by appending _1, _2, ... before the extension.
func Flatten(ctx context.Context, opts *Options) error {

	if opts.Bucket == nil {
		return errors.New("Missing bucket")
	}

	logger := slog.Default()

	// One flat listing up front: both the set of nested keys to move and
	// the top-level names already taken.

	nested := make([]string, 0)
	taken := make(map[string]bool)

	iter := opts.Bucket.List(nil)

	for {

		obj, err := iter.Next(ctx)

		if err == io.EOF {
			break
		}

		if err != nil {
			return fmt.Errorf("Failed to list bucket, %w", err)
		}

		if strings.Contains(obj.Key, "/") {
			nested = append(nested, obj.Key)
		} else {
			taken[obj.Key] = true
		}
	}

	for _, key := range nested {

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// pass
		}

		dest := filepath.Base(key)

		ext := filepath.Ext(dest)
		stem := strings.TrimSuffix(dest, ext)

		counter := 1

		for taken[dest] {
			dest = fmt.Sprintf("%s_%d%s", stem, counter, ext)
			counter += 1
		}

		if opts.Dryrun {
			logger.Info("[dryrun] move object here", "from", key, "to", dest)
			taken[dest] = true
			continue
		}

		err := moveObject(ctx, opts, key, dest)

		if err != nil {
			return fmt.Errorf("Failed to move %s to %s, %w", key, dest, err)
		}

		taken[dest] = true
		logger.Info("Moved object", "from", key, "to", dest)
	}

	return nil
}

func moveObject(ctx context.Context, opts *Options, key string, dest string) error {

	r, err := opts.Bucket.NewReader(ctx, key, nil)

	if err != nil {
		return fmt.Errorf("Failed to open %s for reading, %w", key, err)
	}

	defer r.Close()

	var wr_opts *blob.WriterOptions

	if opts.PublicRead {

		before := func(asFunc func(interface{}) bool) error {

			s3_req := &s3manager.UploadInput{}
			ok := asFunc(&s3_req)

			if ok {
				s3_req.ACL = aws.String("public-read")
			}

			return nil
		}

		wr_opts = &blob.WriterOptions{
			BeforeWrite: before,
		}
	}

	wr, err := opts.Bucket.NewWriter(ctx, dest, wr_opts)

	if err != nil {
		return fmt.Errorf("Failed to open %s for writing, %w", dest, err)
	}

	_, err = io.Copy(wr, r)

	if err != nil {
		wr.Close()
		return fmt.Errorf("Failed to copy %s, %w", key, err)
	}

	err = wr.Close()

	if err != nil {
		return fmt.Errorf("Failed to close %s, %w", dest, err)
	}

	return opts.Bucket.Delete(ctx, key)
}
