// Package process implements the per-directory pipeline: extract GPS
// records from a leaf directory's photos, cluster them, filter the
// clusters, and write one KML point document per retained group plus a log
// and a machine-readable report. Directories are processed one at a time,
// to completion, and one directory's failures never abort another's.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sfomuseum/go-photo-cluster/common"
	"github.com/sfomuseum/go-photo-cluster/extract"
	"github.com/sfomuseum/go-photo-cluster/geo"
	"github.com/sfomuseum/go-photo-cluster/kml"
	"github.com/sfomuseum/go-photo-cluster/namer"
	"github.com/sfomuseum/go-photo-cluster/walk"
	"github.com/whosonfirst/go-writer/v3"
	"gocloud.dev/blob"
)

// DefaultMaxDistanceKm is the clustering radius used when none is given.
const DefaultMaxDistanceKm = 1.8

// DefaultOutputPrefix is where artifacts are consolidated, relative to the
// processing root.
const DefaultOutputPrefix = "Consolidated_Output/"

// RunContext is the identity of one top-level invocation: a fixed wall-clock
// timestamp and the absolute path of the tree being processed. It is always
// threaded explicitly into naming so a run is reproducible under test with
// an injected timestamp.
type RunContext struct {
	Timestamp time.Time
	Root      string
}

// Options configures a Processor.
type Options struct {
	// Source is the photo tree, rooted at Run.Root.
	Source *blob.Bucket
	// Writer publishes artifacts, rooted at the consolidated output
	// location. Artifact paths are bare file names.
	Writer writer.Writer
	// OutputPrefix is the consolidated output location's key prefix inside
	// Source, excluded from the walk.
	OutputPrefix string
	// MaxDistanceKm is the clustering neighbourhood radius.
	MaxDistanceKm float64
	// MinGroupSize is the cluster-size threshold; clusters must exceed it.
	MinGroupSize int
	// Fingerprint records each photo's SHA-1 in the JSON report.
	Fingerprint bool
	Run         RunContext
}

type Processor struct {
	opts *Options
}

func NewProcessor(opts *Options) (*Processor, error) {

	if opts.Source == nil {
		return nil, errors.New("Missing source bucket")
	}

	if opts.Writer == nil {
		return nil, errors.New("Missing writer")
	}

	if opts.Run.Root == "" {
		return nil, errors.New("Missing run root")
	}

	if opts.Run.Timestamp.IsZero() {
		return nil, errors.New("Missing run timestamp")
	}

	if opts.OutputPrefix == "" {
		opts.OutputPrefix = DefaultOutputPrefix
	}

	if opts.MaxDistanceKm == 0 {
		opts.MaxDistanceKm = DefaultMaxDistanceKm
	}

	if opts.MinGroupSize == 0 {
		opts.MinGroupSize = geo.DefaultMinGroupSize
	}

	p := &Processor{
		opts: opts,
	}

	return p, nil
}

// ProcessTree walks the tree for leaf directories and processes each one in
// turn. A directory that fails is logged and skipped; its siblings still
// run. The returned list holds every artifact path written, in order.
func (p *Processor) ProcessTree(ctx context.Context) ([]string, error) {

	leaf_dirs, err := walk.LeafDirectories(ctx, p.opts.Source, p.opts.OutputPrefix)

	if err != nil {
		return nil, fmt.Errorf("Failed to derive leaf directories, %w", err)
	}

	logger := slog.Default()
	logger.Info("Processing tree", "root", p.opts.Run.Root, "leaf directories", len(leaf_dirs))

	artifacts := make([]string, 0)

	for _, dir := range leaf_dirs {

		select {
		case <-ctx.Done():
			return artifacts, ctx.Err()
		default:
			// pass
		}

		dir_artifacts, err := p.ProcessDirectory(ctx, dir)

		if err != nil {
			logger.Error("Failed to process directory", "prefix", dir, "error", err)
			continue
		}

		artifacts = append(artifacts, dir_artifacts...)
	}

	return artifacts, nil
}

// ProcessDirectory runs the pipeline for a single directory prefix and
// returns the artifact paths it wrote. Directories without photo files are
// skipped and yield no artifacts.
func (p *Processor) ProcessDirectory(ctx context.Context, dir_prefix string) ([]string, error) {

	listing, err := walk.List(ctx, p.opts.Source, dir_prefix)

	if err != nil {
		return nil, fmt.Errorf("Failed to list directory %s, %w", dir_prefix, err)
	}

	photo_keys := make([]string, 0, len(listing.Files))

	for _, key := range listing.Files {

		if extract.IsPhoto(key) {
			photo_keys = append(photo_keys, key)
		}
	}

	logger := slog.Default()
	logger = logger.With("prefix", dir_prefix)

	if len(photo_keys) == 0 {
		logger.Debug("No photo files, skipping directory")
		return nil, nil
	}

	rel_path := strings.TrimSuffix(dir_prefix, "/")

	if rel_path == "" {
		rel_path = "."
	}

	abs_path := filepath.Join(p.opts.Run.Root, filepath.FromSlash(rel_path))

	folder := walk.Base(dir_prefix)

	if folder == "" {
		folder = filepath.Base(p.opts.Run.Root)
	}

	prefix := namer.Prefix(abs_path, rel_path, p.opts.Run.Timestamp)

	log_lines := []string{
		fmt.Sprintf("Directory '%s' contains %d files, %d of them photos.", abs_path, len(listing.Files), len(photo_keys)),
	}

	rsp, err := extract.Records(ctx, p.opts.Source, photo_keys)

	if err != nil {
		return nil, fmt.Errorf("Failed to extract records for %s, %w", dir_prefix, err)
	}

	for _, f := range rsp.Failures {
		log_lines = append(log_lines, fmt.Sprintf("Failed to process photo '%s': %v", filepath.Base(f.Key), f.Err))
	}

	artifacts := make([]string, 0)

	retained_count := 0
	discarded_clusters := 0
	discarded_points := 0
	cluster_count := 0

	if len(rsp.Records) > 0 {

		clusters := geo.ClusterPoints(rsp.Records, p.opts.MaxDistanceKm)
		cluster_count = len(clusters)

		groups, d_clusters, d_points := geo.FilterClusters(clusters, p.opts.MinGroupSize)

		retained_count = len(groups)
		discarded_clusters = d_clusters
		discarded_points = d_points

		for _, g := range groups {

			doc_name := fmt.Sprintf("%s_%d.kml", prefix, g.Index)

			err := p.writePointDocument(ctx, doc_name, folder, g, retained_count)

			if err != nil {
				return nil, err
			}

			artifacts = append(artifacts, doc_name)
			log_lines = append(log_lines, fmt.Sprintf("Wrote KML document '%s' with %d points.", doc_name, len(g.Members)))
		}

		log_lines = append(log_lines,
			"",
			"Cluster results:",
			fmt.Sprintf("- retained clusters: %d", retained_count),
			fmt.Sprintf("- discarded clusters: %d, discarded points: %d", discarded_clusters, discarded_points),
		)

	} else {
		log_lines = append(log_lines, "No photos carried GPS information, no KML documents written.")
	}

	log_lines = append(log_lines,
		"",
		"Processing results:",
		fmt.Sprintf("- photos with GPS information: %d", len(rsp.Records)),
		fmt.Sprintf("- photos without GPS information: %d", rsp.NoGPS),
		fmt.Sprintf("- photos that failed processing: %d", len(rsp.Failures)),
	)

	log_name := fmt.Sprintf("%s_log.txt", prefix)

	err = common.WriteBytes(ctx, p.opts.Writer, log_name, []byte(strings.Join(log_lines, "\n")))

	if err != nil {
		return nil, err
	}

	artifacts = append(artifacts, log_name)

	report := &reportInput{
		prefix:             prefix,
		abs_path:           abs_path,
		rel_path:           rel_path,
		total_files:        len(listing.Files),
		photo_keys:         photo_keys,
		extracted:          len(rsp.Records),
		no_gps:             rsp.NoGPS,
		failed:             len(rsp.Failures),
		clusters:           cluster_count,
		retained:           retained_count,
		discarded_clusters: discarded_clusters,
		discarded_points:   discarded_points,
		artifacts:          artifacts,
	}

	report_name := fmt.Sprintf("%s_report.json", prefix)

	body, err := p.marshalReport(ctx, report)

	if err != nil {
		return nil, err
	}

	err = common.WriteBytes(ctx, p.opts.Writer, report_name, body)

	if err != nil {
		return nil, err
	}

	artifacts = append(artifacts, report_name)

	logger.Info("Processed directory", "photos", len(photo_keys), "retained clusters", retained_count, "artifacts", len(artifacts))

	return artifacts, nil
}

func (p *Processor) writePointDocument(ctx context.Context, doc_name string, folder string, group geo.RetainedGroup, total int) error {

	title, err := namer.Title(folder, group.Index, total)

	if err != nil {
		return fmt.Errorf("Failed to derive title for %s, %w", doc_name, err)
	}

	doc := kml.NewPointDocument(title, group.Members)

	body, err := doc.Marshal()

	if err != nil {
		return fmt.Errorf("Failed to marshal %s, %w", doc_name, err)
	}

	return common.WriteBytes(ctx, p.opts.Writer, doc_name, body)
}
