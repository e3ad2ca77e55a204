package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestIsPhoto(t *testing.T) {

	tests := []struct {
		key      string
		expected bool
	}{
		{"a.jpg", true},
		{"b.JPEG", true},
		{"c.Png", true},
		{"trip/d.jpg", true},
		{"notes.txt", false},
		{"sidecar.xmp", false},
		{"doc.kml", false},
		{"noext", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsPhoto(tt.key), tt.key)
	}
}

func TestRecordsUndecodable(t *testing.T) {

	// A photo file whose body is not a decodable image counts as a failure;
	// the batch itself still succeeds.

	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	require.NoError(t, bucket.WriteAll(ctx, "bad.jpg", []byte("not a jpeg"), nil))

	rsp, err := Records(ctx, bucket, []string{"bad.jpg"})
	require.NoError(t, err)

	assert.Len(t, rsp.Records, 0)
	assert.Equal(t, 0, rsp.NoGPS)

	require.Len(t, rsp.Failures, 1)
	assert.Equal(t, "bad.jpg", rsp.Failures[0].Key)
	assert.Error(t, rsp.Failures[0].Err)
}

func TestRecordsEmpty(t *testing.T) {

	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	rsp, err := Records(ctx, bucket, nil)
	require.NoError(t, err)

	assert.Len(t, rsp.Records, 0)
	assert.Len(t, rsp.Failures, 0)
}
