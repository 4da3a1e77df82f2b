// Package storage keeps the content of stored files. Records about the
// files live in the repositories; a blob is addressed only by its key.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore stores opaque blobs. Get and Delete of an unknown key return
// common.ErrNotFound.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewBlobKey returns a fresh key for a blob of bucketID.
func NewBlobKey(bucketID string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("buckets/%s/%d/%02d/%02d/%s", bucketID, d.Year(), d.Month(), d.Day(), uuid.New())
}
