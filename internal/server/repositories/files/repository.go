// Package files stores file records. File content lives in the blob store.
package files

import (
	"context"

	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

// Repository persists file records scoped to a bucket. Get and Delete
// return common.ErrNotFound when the file is not in the bucket.
type Repository interface {
	Create(ctx context.Context, f *models.File) (*models.File, error)
	ListByBucket(ctx context.Context, bucketID string) ([]models.File, error)
	Get(ctx context.Context, bucketID, id string) (*models.File, error)
	Delete(ctx context.Context, bucketID, id string) error
}
