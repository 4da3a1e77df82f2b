package secrets

import (
	"context"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
)

type Repository interface {
	Put(ctx context.Context, rec *models.KeyRingRecord) error
	Get(ctx context.Context, fileID string) (*models.KeyRingRecord, error)
	Delete(ctx context.Context, fileID string) error
	// List returns the file ids with a record, sorted.
	List(ctx context.Context) ([]string, error)
}
