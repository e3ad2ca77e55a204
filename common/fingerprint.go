package common

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"

	"gocloud.dev/blob"
)

// FingerprintFile generates the SHA-1 hash of a file stored in a
// blob.Bucket instance, for recording in run reports.
func FingerprintFile(ctx context.Context, bucket *blob.Bucket, path string) (string, error) {

	fh, err := bucket.NewReader(ctx, path, nil)

	if err != nil {
		return "", fmt.Errorf("Failed to open %s for reading, %w", path, err)
	}

	defer fh.Close()

	h := sha1.New()

	_, err = io.Copy(h, fh)

	if err != nil {
		return "", fmt.Errorf("Failed to hash %s, %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
