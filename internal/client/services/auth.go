package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/credential"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/keypair"
	"github.com/zeebo/errs"
)

// Dialer builds a bridge client for an auth mode and credentials.
type Dialer func(mode client.AuthMode, creds client.Credentials) (client.Client, error)

// NewDialer returns a Dialer creating Sessions against endpoint.
func NewDialer(endpoint string, opts ...client.Option) Dialer {
	return func(mode client.AuthMode, creds client.Credentials) (client.Client, error) {
		return client.Authenticate(endpoint, mode, creds, opts...)
	}
}

// AuthService establishes identities with the bridge.
//
// Contract:
//   - Register: create an account with an unauthenticated client.
//   - BootstrapKeyPair: log in with a password, generate a key pair,
//     register it and persist it; returns a key-pair client.
//   - Login: build a key-pair client from the stored credential.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	BootstrapKeyPair(ctx context.Context, email, password string) (client.Client, *keypair.KeyPair, error)
	Login(ctx context.Context) (client.Client, *keypair.KeyPair, error)
}

type authService struct {
	dial  Dialer
	store credential.Store
}

func NewAuthService(dial Dialer, store credential.Store) AuthService {
	return &authService{dial: dial, store: store}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.User, error) {
	c, err := s.dial(client.AuthModeNone, client.Credentials{})
	if err != nil {
		return nil, err
	}
	return c.CreateUser(ctx, email, password)
}

func (s *authService) BootstrapKeyPair(ctx context.Context, email, password string) (client.Client, *keypair.KeyPair, error) {
	pc, err := s.dial(client.AuthModePassword, client.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}

	kp, err := keypair.Generate()
	if err != nil {
		return nil, nil, err
	}
	if err := pc.AddPublicKey(ctx, kp.PublicKey()); err != nil {
		return nil, nil, err
	}

	if err := s.store.Save(ctx, &models.Credential{Key: kp.PrivateKey()}); err != nil {
		// an unsaved key can never be used again, take it back
		return nil, nil, errs.Combine(err, pc.DestroyPublicKey(ctx, kp.PublicKey()))
	}

	kc, err := s.dial(client.AuthModeKeyPair, client.Credentials{KeyPair: kp})
	if err != nil {
		return nil, nil, err
	}
	return kc, kp, nil
}

func (s *authService) Login(ctx context.Context) (client.Client, *keypair.KeyPair, error) {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cred == nil {
		return nil, nil, fmt.Errorf("%w: no stored credential", client.ErrAuthentication)
	}

	kp, err := keypair.FromPrivateKey(cred.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", client.ErrAuthentication, err)
	}

	c, err := s.dial(client.AuthModeKeyPair, client.Credentials{KeyPair: kp})
	if err != nil {
		return nil, nil, err
	}
	return c, kp, nil
}
