// Package clean removes the artifacts a processing run left behind. It is
// deliberately conservative: candidates are enumerated from the run
// reports' artifact lists (with a suffix scan as a safety net), presented
// to a confirmation callback, and only deleted when the callback agrees.
package clean

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sfomuseum/go-photo-cluster/common"
	"github.com/sfomuseum/go-photo-cluster/operations/process"
	"github.com/tidwall/gjson"
	"github.com/whosonfirst/go-writer/v3"
	"gocloud.dev/blob"
)

// ConfirmFunc decides whether the presented artifacts may be deleted.
type ConfirmFunc func(artifacts []string) (bool, error)

// Options configures a clean pass.
type Options struct {
	// Output is the consolidated output location holding the artifacts.
	Output *blob.Bucket
	// RootWriter publishes the deletion log at the processing root.
	RootWriter writer.Writer
	// Confirm gates the deletion. Required.
	Confirm ConfirmFunc
	// Dryrun logs deletions without performing them.
	Dryrun bool
	Run    process.RunContext
}

// Clean enumerates generated artifacts, asks for confirmation, deletes what
// was confirmed and writes a deletion log. Individual deletion failures are
// recorded in the log and do not abort the pass.
func Clean(ctx context.Context, opts *Options) error {

	if opts.Output == nil {
		return errors.New("Missing output bucket")
	}

	if opts.RootWriter == nil {
		return errors.New("Missing root writer")
	}

	if opts.Confirm == nil {
		return errors.New("Missing confirmation callback")
	}

	logger := slog.Default()

	artifacts, err := gatherArtifacts(ctx, opts.Output)

	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		logger.Info("No generated artifacts found, nothing to clean")
		return nil
	}

	confirmed, err := opts.Confirm(artifacts)

	if err != nil {
		return fmt.Errorf("Failed to confirm deletion, %w", err)
	}

	if !confirmed {
		logger.Info("Deletion not confirmed, leaving artifacts in place")
		return nil
	}

	log_lines := make([]string, 0, len(artifacts))

	for _, key := range artifacts {

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// pass
		}

		if opts.Dryrun {
			logger.Info("[dryrun] delete artifact here", "key", key)
			log_lines = append(log_lines, fmt.Sprintf("[dryrun] Would delete '%s'", key))
			continue
		}

		err := opts.Output.Delete(ctx, key)

		if err != nil {
			logger.Error("Failed to delete artifact", "key", key, "error", err)
			log_lines = append(log_lines, fmt.Sprintf("Failed to delete '%s': %v", key, err))
			continue
		}

		log_lines = append(log_lines, fmt.Sprintf("Deleted '%s'", key))
	}

	log_name := fmt.Sprintf("deletion_log_%s.txt", opts.Run.Timestamp.Format("20060102150405"))

	err = common.WriteBytes(ctx, opts.RootWriter, log_name, []byte(strings.Join(log_lines, "\n")))

	if err != nil {
		return err
	}

	logger.Info("Clean pass complete", "artifacts", len(artifacts), "log", log_name)

	return nil
}

// gatherArtifacts enumerates deletion candidates: everything the run
// reports claim to have written, plus anything in the output location whose
// name matches the artifact suffixes, in listing order without duplicates.
func gatherArtifacts(ctx context.Context, bucket *blob.Bucket) ([]string, error) {

	artifacts := make([]string, 0)
	seen := make(map[string]bool)

	add := func(key string) {

		if seen[key] {
			return
		}

		seen[key] = true
		artifacts = append(artifacts, key)
	}

	iter := bucket.List(&blob.ListOptions{
		Delimiter: "/",
	})

	for {

		obj, err := iter.Next(ctx)

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("Failed to list output location, %w", err)
		}

		if obj.IsDir {
			continue
		}

		if strings.HasSuffix(obj.Key, "_report.json") {

			listed, err := reportArtifacts(ctx, bucket, obj.Key)

			if err != nil {
				slog.Warn("Failed to read run report", "key", obj.Key, "error", err)
			}

			for _, key := range listed {
				add(key)
			}

			add(obj.Key)
			continue
		}

		ext := strings.ToLower(filepath.Ext(obj.Key))

		if ext == ".kml" || strings.HasSuffix(obj.Key, "_log.txt") {
			add(obj.Key)
		}
	}

	return artifacts, nil
}

func reportArtifacts(ctx context.Context, bucket *blob.Bucket, key string) ([]string, error) {

	fh, err := bucket.NewReader(ctx, key, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s for reading, %w", key, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", key, err)
	}

	rsp := gjson.GetBytes(body, "artifacts")

	if !rsp.Exists() {
		return nil, nil
	}

	keys := make([]string, 0)

	for _, r := range rsp.Array() {
		keys = append(keys, r.String())
	}

	return keys, nil
}
