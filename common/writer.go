package common

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/whosonfirst/go-ioutil"
	"github.com/whosonfirst/go-writer/v3"
)

var writers = make(map[string]writer.Writer)
var writers_mu = new(sync.RWMutex)

// NewWriter returns a whosonfirst/go-writer.Writer instance. Instances
// are cached in memory for repeat lookups.
func NewWriter(ctx context.Context, uri string) (writer.Writer, error) {

	writers_mu.Lock()
	defer writers_mu.Unlock()

	wr, ok := writers[uri]

	if ok {
		return wr, nil
	}

	wr, err := writer.NewWriter(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to create writer for '%s', %w", uri, err)
	}

	writers[uri] = wr
	return wr, nil
}

// WriteBytes publishes a fully assembled document body under the given
// relative path. Bodies are buffered values by the time they get here, so
// this wraps them in the ReadSeekCloser the writer interface wants.
func WriteBytes(ctx context.Context, wr writer.Writer, path string, body []byte) error {

	br := bytes.NewReader(body)

	fh, err := ioutil.NewReadSeekCloser(br)

	if err != nil {
		return fmt.Errorf("Failed to create ReadSeekCloser for %s, %w", path, err)
	}

	_, err = wr.Write(ctx, path, fh)

	if err != nil {
		return fmt.Errorf("Failed to write %s, %w", path, err)
	}

	return nil
}
