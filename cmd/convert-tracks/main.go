// convert-tracks re-reads the point documents (and any XMP geotag sidecars)
// in a tree's Consolidated_Output directory and writes one consolidated
// track document in which every point has become a minimal two-vertex line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sfomuseum/go-photo-cluster/common"
	"github.com/sfomuseum/go-photo-cluster/operations/convert"
	"github.com/sfomuseum/go-photo-cluster/operations/process"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s directory", os.Args[0])
	}

	root, err := filepath.Abs(flag.Arg(0))

	if err != nil {
		log.Fatalf("Failed to derive absolute path for '%s', %v", flag.Arg(0), err)
	}

	out_dir := filepath.Join(root, "Consolidated_Output")

	info, err := os.Stat(out_dir)

	if err != nil || !info.IsDir() {
		log.Fatalf("'%s' is not a valid directory", out_dir)
	}

	ctx := context.Background()

	bucket, err := blob.OpenBucket(ctx, fmt.Sprintf("file://%s", out_dir))

	if err != nil {
		log.Fatalf("Failed to open bucket for '%s', %v", out_dir, err)
	}

	defer bucket.Close()

	wr, err := common.NewWriter(ctx, fmt.Sprintf("fs://%s", out_dir))

	if err != nil {
		log.Fatalf("Failed to create writer for '%s', %v", out_dir, err)
	}

	opts := &convert.Options{
		Bucket: bucket,
		Writer: wr,
		Run: process.RunContext{
			Timestamp: time.Now(),
			Root:      root,
		},
	}

	track_name, err := convert.ConvertTracks(ctx, opts)

	if err != nil {
		log.Fatalf("Failed to convert tracks, %v", err)
	}

	if track_name == "" {
		log.Println("Nothing to convert")
		return
	}

	log.Printf("Wrote track document %s\n", filepath.Join(out_dir, track_name))
}
