package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/keypair"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/repomanager"
)

// KeyService manages the public keys a user signs requests with.
type KeyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewKeyService(db *sql.DB, m repomanager.RepositoryManager) *KeyService {
	return &KeyService{db: db, repomanager: m}
}

// Add registers key for user. The key must be a compressed hex secp256k1
// public key.
func (s *KeyService) Add(ctx context.Context, user *models.User, key string) (*models.PublicKey, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, err := keypair.ParsePublicKey(key); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	if err := s.repomanager.Keys(conn(s.db)).Add(ctx, user.ID, key); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: public key is already registered", common.ErrAlreadyExists)
		}
		return nil, err
	}
	return &models.PublicKey{Key: key, UserID: user.ID, User: user.Email}, nil
}

// List returns the user's keys, never nil.
func (s *KeyService) List(ctx context.Context, user *models.User) ([]models.PublicKey, error) {
	keys, err := s.repomanager.Keys(conn(s.db)).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		keys[i].User = user.Email
	}
	return keys, nil
}

func (s *KeyService) Delete(ctx context.Context, user *models.User, key string) error {
	return s.repomanager.Keys(conn(s.db)).Delete(ctx, user.ID, strings.ToLower(key))
}

// Authenticate verifies sigHex over message with pubKey and returns the
// key's owner. Unknown keys and bad signatures are common.ErrUnauthorized.
func (s *KeyService) Authenticate(ctx context.Context, pubKey string, message []byte, sigHex string) (*models.User, error) {
	k, err := s.repomanager.Keys(conn(s.db)).Get(ctx, strings.ToLower(pubKey))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	if err := keypair.Verify(k.Key, message, sigHex); err != nil {
		return nil, common.ErrUnauthorized
	}
	u, err := s.repomanager.Users(conn(s.db)).GetByID(ctx, k.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return u, nil
}
