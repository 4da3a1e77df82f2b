// Package keys stores the public keys users register for signed requests.
package keys

import (
	"context"

	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

// Repository persists public keys. A key belongs to exactly one user.
type Repository interface {
	// Add fails with common.ErrAlreadyExists when the key is registered to
	// any user.
	Add(ctx context.Context, userID, key string) error
	ListByUser(ctx context.Context, userID string) ([]models.PublicKey, error)
	Get(ctx context.Context, key string) (*models.PublicKey, error)
	// Delete removes a key owned by userID, or returns common.ErrNotFound.
	Delete(ctx context.Context, userID, key string) error
}
