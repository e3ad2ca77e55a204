package process

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sfomuseum/go-photo-cluster/common"
	"github.com/tidwall/sjson"
)

// reportInput gathers everything the machine-readable run report records
// for one directory.
type reportInput struct {
	prefix             string
	abs_path           string
	rel_path           string
	total_files        int
	photo_keys         []string
	extracted          int
	no_gps             int
	failed             int
	clusters           int
	retained           int
	discarded_clusters int
	discarded_points   int
	artifacts          []string
}

// marshalReport assembles the JSON report for one directory. Reports are
// consumed by the clean operation, which trusts their artifact lists.
func (p *Processor) marshalReport(ctx context.Context, r *reportInput) ([]byte, error) {

	body := []byte("{}")

	updates := []struct {
		path  string
		value interface{}
	}{
		{"run.timestamp", p.opts.Run.Timestamp.Format(time.RFC3339)},
		{"run.root", p.opts.Run.Root},
		{"directory.path", r.abs_path},
		{"directory.relative_path", r.rel_path},
		{"directory.prefix", r.prefix},
		{"counts.files", r.total_files},
		{"counts.photos", len(r.photo_keys)},
		{"counts.with_gps", r.extracted},
		{"counts.without_gps", r.no_gps},
		{"counts.failed", r.failed},
		{"clusters.total", r.clusters},
		{"clusters.retained", r.retained},
		{"clusters.discarded", r.discarded_clusters},
		{"clusters.discarded_points", r.discarded_points},
		{"artifacts", r.artifacts},
	}

	var err error

	for _, u := range updates {

		body, err = sjson.SetBytes(body, u.path, u.value)

		if err != nil {
			return nil, fmt.Errorf("Failed to assign %s property, %w", u.path, err)
		}
	}

	if !p.opts.Fingerprint {
		return body, nil
	}

	logger := slog.Default()

	for _, key := range r.photo_keys {

		fp, err := common.FingerprintFile(ctx, p.opts.Source, key)

		if err != nil {
			logger.Warn("Failed to fingerprint photo", "key", key, "error", err)
			continue
		}

		entry := map[string]string{
			"path":        filepath.Base(key),
			"fingerprint": fp,
		}

		body, err = sjson.SetBytes(body, "photos.-1", entry)

		if err != nil {
			return nil, fmt.Errorf("Failed to append photo fingerprint, %w", err)
		}
	}

	return body, nil
}
