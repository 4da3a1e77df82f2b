// Package users stores bridge accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

// Repository persists users. Lookups of a missing user return
// common.ErrNotFound; creating a duplicate email returns
// common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
