// Package walk is the directory-walking boundary: it enumerates the leaf
// directories of a photo tree stored in a blob.Bucket. A directory is a
// leaf when none of its immediate subdirectories contains photo files;
// subdirectories holding only non-photo material do not disqualify it.
package walk

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sfomuseum/go-photo-cluster/extract"
	"gocloud.dev/blob"
)

// Listing describes one directory in a bucket: its immediate file keys and
// subdirectory prefixes, in listing order.
type Listing struct {
	Prefix string
	Files  []string
	Dirs   []string
}

// List returns the immediate contents of one directory prefix.
func List(ctx context.Context, bucket *blob.Bucket, prefix string) (*Listing, error) {

	listing := &Listing{
		Prefix: prefix,
		Files:  make([]string, 0),
		Dirs:   make([]string, 0),
	}

	iter := bucket.List(&blob.ListOptions{
		Delimiter: "/",
		Prefix:    prefix,
	})

	for {

		obj, err := iter.Next(ctx)

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("Failed to list %s, %w", prefix, err)
		}

		if obj.IsDir {
			listing.Dirs = append(listing.Dirs, obj.Key)
		} else {
			listing.Files = append(listing.Files, obj.Key)
		}
	}

	return listing, nil
}

// LeafDirectories walks the bucket from the root prefix ("" for the whole
// bucket) and returns every leaf directory prefix in traversal order. Any
// prefix equal to skip (the consolidated output location, typically) is
// excluded from the walk entirely.
func LeafDirectories(ctx context.Context, bucket *blob.Bucket, skip string) ([]string, error) {

	leaves := make([]string, 0)

	var descend func(prefix string) error

	descend = func(prefix string) error {

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// pass
		}

		listing, err := List(ctx, bucket, prefix)

		if err != nil {
			return err
		}

		is_leaf := true

		dirs := make([]string, 0, len(listing.Dirs))

		for _, dir := range listing.Dirs {

			if skip != "" && dir == skip {
				continue
			}

			dirs = append(dirs, dir)

			sub, err := List(ctx, bucket, dir)

			if err != nil {
				return err
			}

			if hasPhotos(sub) {
				is_leaf = false
			}
		}

		if is_leaf {
			leaves = append(leaves, prefix)
		}

		for _, dir := range dirs {

			err := descend(dir)

			if err != nil {
				return err
			}
		}

		return nil
	}

	err := descend("")

	if err != nil {
		return nil, err
	}

	return leaves, nil
}

func hasPhotos(listing *Listing) bool {

	for _, key := range listing.Files {

		if extract.IsPhoto(key) {
			return true
		}
	}

	return false
}

// Base returns the directory name of a prefix, so "a/b/" yields "b". The
// empty (root) prefix has no base name here; callers substitute the root
// directory's own name.
func Base(prefix string) string {

	trimmed := strings.TrimSuffix(prefix, "/")

	if trimmed == "" {
		return ""
	}

	idx := strings.LastIndex(trimmed, "/")

	return trimmed[idx+1:]
}
