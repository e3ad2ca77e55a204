// flatten moves every nested file in a directory tree to the top level,
// resolving filename collisions with numeric suffixes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sfomuseum/go-photo-cluster/operations/flatten"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	dryrun := flag.Bool("dryrun", false, "Log the moves without performing them.")
	public_read := flag.Bool("public-read", false, "Mark moved objects world-readable (S3-backed buckets only).")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [options] directory", os.Args[0])
	}

	root, err := filepath.Abs(flag.Arg(0))

	if err != nil {
		log.Fatalf("Failed to derive absolute path for '%s', %v", flag.Arg(0), err)
	}

	info, err := os.Stat(root)

	if err != nil || !info.IsDir() {
		log.Fatalf("'%s' is not a valid directory", root)
	}

	ctx := context.Background()

	bucket, err := blob.OpenBucket(ctx, fmt.Sprintf("file://%s", root))

	if err != nil {
		log.Fatalf("Failed to open bucket for '%s', %v", root, err)
	}

	defer bucket.Close()

	opts := &flatten.Options{
		Bucket:     bucket,
		Dryrun:     *dryrun,
		PublicRead: *public_read,
	}

	err = flatten.Flatten(ctx, opts)

	if err != nil {
		log.Fatalf("Failed to flatten '%s', %v", root, err)
	}
}
