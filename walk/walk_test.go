package walk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestList(t *testing.T) {

	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	keys := []string{
		"a.jpg",
		"notes.txt",
		"trip/b.jpg",
		"trip/day1/c.jpg",
	}

	for _, key := range keys {
		require.NoError(t, bucket.WriteAll(ctx, key, []byte("x"), nil))
	}

	listing, err := List(ctx, bucket, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "notes.txt"}, listing.Files)
	assert.Equal(t, []string{"trip/"}, listing.Dirs)

	listing, err = List(ctx, bucket, "trip/")
	require.NoError(t, err)

	assert.Equal(t, []string{"trip/b.jpg"}, listing.Files)
	assert.Equal(t, []string{"trip/day1/"}, listing.Dirs)
}

func TestLeafDirectories(t *testing.T) {

	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	// The root holds photos in trip/, so the root is not a leaf. trip/ has a
	// photo-bearing subdirectory so it is not a leaf either. trip/day1/ and
	// misc/ are leaves: day1 has no subdirectories at all, and misc's only
	// subdirectory holds no photos.

	keys := []string{
		"trip/b.jpg",
		"trip/day1/c.jpg",
		"misc/readme.txt",
		"misc/archive/notes.txt",
	}

	for _, key := range keys {
		require.NoError(t, bucket.WriteAll(ctx, key, []byte("x"), nil))
	}

	leaves, err := LeafDirectories(ctx, bucket, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"misc/", "misc/archive/", "trip/day1/"}, leaves)
}

func TestLeafDirectoriesFlatTree(t *testing.T) {

	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	require.NoError(t, bucket.WriteAll(ctx, "a.jpg", []byte("x"), nil))

	leaves, err := LeafDirectories(ctx, bucket, "")
	require.NoError(t, err)

	assert.Equal(t, []string{""}, leaves)
}

func TestLeafDirectoriesSkip(t *testing.T) {

	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	keys := []string{
		"a.jpg",
		"Consolidated_Output/old_doc.kml",
	}

	for _, key := range keys {
		require.NoError(t, bucket.WriteAll(ctx, key, []byte("x"), nil))
	}

	leaves, err := LeafDirectories(ctx, bucket, "Consolidated_Output/")
	require.NoError(t, err)

	assert.Equal(t, []string{""}, leaves)
}

func TestBase(t *testing.T) {

	tests := []struct {
		prefix   string
		expected string
	}{
		{"", ""},
		{"trip/", "trip"},
		{"trip/day1/", "day1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Base(tt.prefix))
	}
}
