// Package namer derives deterministic, filesystem-safe names and titles for
// the documents produced by one processing run. Everything here is a pure
// function of its inputs; the run timestamp is always passed in explicitly
// rather than read from the clock so runs are reproducible under test.
package namer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the second-resolution layout embedded in artifact names.
const TimestampLayout = "20060102150405"

// Sanitize rewrites a path so it can be embedded in a file name: colons are
// stripped and path separators and spaces become underscores.
func Sanitize(path string) string {

	s := strings.ReplaceAll(path, ":", "")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")

	return s
}

// Prefix builds the artifact name prefix for one directory in one run from
// the directory's absolute path, its path relative to the processing root
// and the run timestamp. Collisions are not resolved here; the combination
// of both paths and a second-resolution timestamp is assumed unique per run.
func Prefix(abs_path string, rel_path string, ts time.Time) string {
	return fmt.Sprintf("%s_%s_%s", Sanitize(abs_path), Sanitize(rel_path), ts.Format(TimestampLayout))
}

// Title builds the human-readable document title for the group'th retained
// group (1-based) of total, embedding the directory's base name.
func Title(folder string, group int, total int) (string, error) {

	if folder == "" {
		return "", errors.New("Missing folder name")
	}

	return fmt.Sprintf("%s（第%d个子类/共%d个子类）", folder, group, total), nil
}
