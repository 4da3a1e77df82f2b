// Package buckets stores buckets and their storage usage.
package buckets

import (
	"context"

	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

type Repository interface {
	// Create fails with common.ErrAlreadyExists when the user already owns a
	// bucket with the same name.
	Create(ctx context.Context, b *models.Bucket) (*models.Bucket, error)
	ListByUser(ctx context.Context, userID string) ([]models.Bucket, error)
	Get(ctx context.Context, id string) (*models.Bucket, error)
	Delete(ctx context.Context, id string) error
	// AddUsage adjusts the used bytes of a bucket by delta. It fails with
	// common.ErrQuotaExceeded when the result would leave [0, storage].
	AddUsage(ctx context.Context, id string, delta int64) error
}
