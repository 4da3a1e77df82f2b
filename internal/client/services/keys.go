package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/keypair"
)

// KeyService manages the public keys registered for the account.
type KeyService interface {
	// Generate creates a key pair locally. It performs no I/O.
	Generate() (*keypair.KeyPair, error)
	Register(ctx context.Context, kp *keypair.KeyPair) error
	// List returns an empty slice, not an error, when no key is registered.
	List(ctx context.Context) ([]models.PublicKey, error)
	// Revoke fails with client.ErrNotFound for a key that is not registered.
	Revoke(ctx context.Context, kp *keypair.KeyPair) error
}

type keyService struct {
	client client.Client
}

func NewKeyService(c client.Client) KeyService {
	return &keyService{client: c}
}

func (s *keyService) Generate() (*keypair.KeyPair, error) {
	return keypair.Generate()
}

func (s *keyService) Register(ctx context.Context, kp *keypair.KeyPair) error {
	if kp == nil {
		return fmt.Errorf("%w: key pair is nil", client.ErrValidation)
	}
	return s.client.AddPublicKey(ctx, kp.PublicKey())
}

func (s *keyService) List(ctx context.Context) ([]models.PublicKey, error) {
	keys, err := s.client.GetPublicKeys(ctx)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []models.PublicKey{}
	}
	return keys, nil
}

func (s *keyService) Revoke(ctx context.Context, kp *keypair.KeyPair) error {
	if kp == nil {
		return fmt.Errorf("%w: key pair is nil", client.ErrValidation)
	}
	return s.client.DestroyPublicKey(ctx, kp.PublicKey())
}
