// clean deletes the artifacts earlier runs wrote into a tree's
// Consolidated_Output directory, after an interactive confirmation, and
// records what happened in a deletion log at the tree root.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sfomuseum/go-photo-cluster/common"
	"github.com/sfomuseum/go-photo-cluster/operations/clean"
	"github.com/sfomuseum/go-photo-cluster/operations/process"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	dryrun := flag.Bool("dryrun", false, "Log the deletions without performing them.")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt.")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [options] directory", os.Args[0])
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

	output, err := blob.OpenBucket(ctx, fmt.Sprintf("file://%s", out_dir))

	if err != nil {
		log.Fatalf("Failed to open bucket for '%s', %v", out_dir, err)
	}

	defer output.Close()

	root_wr, err := common.NewWriter(ctx, fmt.Sprintf("fs://%s", root))

	if err != nil {
		log.Fatalf("Failed to create writer for '%s', %v", root, err)
	}

	confirm := func(artifacts []string) (bool, error) {

		if *yes {
			return true, nil
		}

		fmt.Printf("About to delete %d artifacts from %s:\n", len(artifacts), out_dir)

		for _, key := range artifacts {
			fmt.Printf("  %s\n", key)
		}

		fmt.Print("Proceed? [y/N] ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')

		if err != nil {
			return false, err
		}

		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	}

	opts := &clean.Options{
		Output:     output,
		RootWriter: root_wr,
		Confirm:    confirm,
		Dryrun:     *dryrun,
		Run: process.RunContext{
			Timestamp: time.Now(),
			Root:      root,
		},
	}

	err = clean.Clean(ctx, opts)

	if err != nil {
		log.Fatalf("Failed to clean '%s', %v", out_dir, err)
	}
}
