// pipeline runs the full workflow against a photo tree: optionally flatten
// the tree, extract and cluster GPS records into KML point documents, then
// collapse those documents into a single consolidated track document.
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
	"github.com/sfomuseum/go-photo-cluster/geo"
	"github.com/sfomuseum/go-photo-cluster/operations/convert"
	"github.com/sfomuseum/go-photo-cluster/operations/flatten"
	"github.com/sfomuseum/go-photo-cluster/operations/process"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	do_flatten := flag.Bool("flatten", false, "Flatten the directory tree before processing.")
	max_distance := flag.Float64("max-distance", process.DefaultMaxDistanceKm, "The maximum distance, in kilometres, between directly connected points in a cluster.")
	min_group_size := flag.Int("min-group-size", geo.DefaultMinGroupSize, "Clusters must hold strictly more members than this to be retained.")
	fingerprint := flag.Bool("fingerprint", false, "Record each photo's SHA-1 fingerprint in the run reports.")

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

	source, err := blob.OpenBucket(ctx, fmt.Sprintf("file://%s", root))

	if err != nil {
		log.Fatalf("Failed to open bucket for '%s', %v", root, err)
	}

	defer source.Close()

	if *do_flatten {

		err := flatten.Flatten(ctx, &flatten.Options{
			Bucket: source,
		})

		if err != nil {
			log.Fatalf("Failed to flatten '%s', %v", root, err)
		}
	}

	out_dir := filepath.Join(root, "Consolidated_Output")

	err = os.MkdirAll(out_dir, 0755)

	if err != nil {
		log.Fatalf("Failed to create output directory '%s', %v", out_dir, err)
	}

	wr, err := common.NewWriter(ctx, fmt.Sprintf("fs://%s", out_dir))

	if err != nil {
		log.Fatalf("Failed to create writer for '%s', %v", out_dir, err)
	}

	run := process.RunContext{
		Timestamp: time.Now(),
		Root:      root,
	}

	pr, err := process.NewProcessor(&process.Options{
		Source:        source,
		Writer:        wr,
		MaxDistanceKm: *max_distance,
		MinGroupSize:  *min_group_size,
		Fingerprint:   *fingerprint,
		Run:           run,
	})

	if err != nil {
		log.Fatalf("Failed to create processor, %v", err)
	}

	artifacts, err := pr.ProcessTree(ctx)

	if err != nil {
		log.Fatalf("Failed to process '%s', %v", root, err)
	}

	log.Printf("Wrote %d artifacts to %s\n", len(artifacts), out_dir)

	output, err := blob.OpenBucket(ctx, fmt.Sprintf("file://%s", out_dir))

	if err != nil {
		log.Fatalf("Failed to open bucket for '%s', %v", out_dir, err)
	}

	defer output.Close()

	track_name, err := convert.ConvertTracks(ctx, &convert.Options{
		Bucket: output,
		Writer: wr,
		Run:    run,
	})

	if err != nil {
		log.Fatalf("Failed to convert tracks, %v", err)
	}

	if track_name != "" {
		log.Printf("Wrote track document %s\n", filepath.Join(out_dir, track_name))
	}
}
