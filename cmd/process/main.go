// process extracts GPS records from every leaf directory of a photo tree,
// clusters them and writes one KML point document per retained group into
// the tree's Consolidated_Output directory, along with per-directory logs
// and run reports.
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
	"github.com/sfomuseum/go-photo-cluster/operations/process"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

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

	opts := &process.Options{
		Source:        source,
		Writer:        wr,
		MaxDistanceKm: *max_distance,
		MinGroupSize:  *min_group_size,
		Fingerprint:   *fingerprint,
		Run:           run,
	}

	pr, err := process.NewProcessor(opts)

	if err != nil {
		log.Fatalf("Failed to create processor, %v", err)
	}

	artifacts, err := pr.ProcessTree(ctx)

	if err != nil {
		log.Fatalf("Failed to process '%s', %v", root, err)
	}

	log.Printf("Wrote %d artifacts to %s\n", len(artifacts), out_dir)
}
