package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialRecorder struct {
	modes []client.AuthMode
	creds []client.Credentials
	c     *fakeClient
	err   error
}

func (d *dialRecorder) dial(mode client.AuthMode, creds client.Credentials) (client.Client, error) {
	d.modes = append(d.modes, mode)
	d.creds = append(d.creds, creds)
	if d.err != nil {
		return nil, d.err
	}
	return d.c, nil
}

func TestAuthService_Register(t *testing.T) {
	d := &dialRecorder{c: &fakeClient{CreateUserRes: &models.User{Email: "a@b.c"}}}
	svc := NewAuthService(d.dial, &fakeStore{})

	u, err := svc.Register(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
	assert.Equal(t, []client.AuthMode{client.AuthModeNone}, d.modes)
}

func TestAuthService_BootstrapKeyPair(t *testing.T) {
	fc := &fakeClient{}
	d := &dialRecorder{c: fc}
	store := &fakeStore{}
	svc := NewAuthService(d.dial, store)

	c, kp, err := svc.BootstrapKeyPair(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, []client.AuthMode{client.AuthModePassword, client.AuthModeKeyPair}, d.modes)
	assert.Equal(t, "a@b.c", d.creds[0].Email)
	assert.Same(t, kp, d.creds[1].KeyPair)
	assert.Equal(t, []string{kp.PublicKey()}, fc.AddedKeys)
	require.NotNil(t, store.cred)
	assert.Equal(t, kp.PrivateKey(), store.cred.Key)
}

func TestAuthService_BootstrapKeyPair_SaveFailureRevokesKey(t *testing.T) {
	fc := &fakeClient{}
	saveErr := errors.New("disk full")
	svc := NewAuthService((&dialRecorder{c: fc}).dial, &fakeStore{SaveErr: saveErr})

	_, _, err := svc.BootstrapKeyPair(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, saveErr)
	require.Len(t, fc.AddedKeys, 1)
	assert.Equal(t, fc.AddedKeys, fc.DestroyedKeys)
}

func TestAuthService_BootstrapKeyPair_RegisterFailure(t *testing.T) {
	fc := &fakeClient{AddKeyErr: &client.ServiceError{StatusCode: 400, Message: "bad key"}}
	store := &fakeStore{}
	svc := NewAuthService((&dialRecorder{c: fc}).dial, store)

	_, _, err := svc.BootstrapKeyPair(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, client.ErrService)
	assert.Nil(t, store.cred)
}

func TestAuthService_Login(t *testing.T) {
	kp, err := keypair.Generate()
	require.NoError(t, err)

	t.Run("no credential", func(t *testing.T) {
		svc := NewAuthService((&dialRecorder{c: &fakeClient{}}).dial, &fakeStore{})
		_, _, err := svc.Login(context.Background())
		assert.ErrorIs(t, err, client.ErrAuthentication)
	})

	t.Run("bad key material", func(t *testing.T) {
		store := &fakeStore{cred: &models.Credential{Key: []byte{1, 2}}}
		svc := NewAuthService((&dialRecorder{c: &fakeClient{}}).dial, store)
		_, _, err := svc.Login(context.Background())
		assert.ErrorIs(t, err, client.ErrAuthentication)
		assert.ErrorIs(t, err, keypair.ErrInvalidPrivateKey)
	})

	t.Run("load error", func(t *testing.T) {
		loadErr := errors.New("io")
		svc := NewAuthService((&dialRecorder{c: &fakeClient{}}).dial, &fakeStore{LoadErr: loadErr})
		_, _, err := svc.Login(context.Background())
		assert.ErrorIs(t, err, loadErr)
	})

	t.Run("ok", func(t *testing.T) {
		d := &dialRecorder{c: &fakeClient{}}
		store := &fakeStore{cred: &models.Credential{Key: kp.PrivateKey()}}
		_, got, err := NewAuthService(d.dial, store).Login(context.Background())
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey(), got.PublicKey())
		assert.Equal(t, []client.AuthMode{client.AuthModeKeyPair}, d.modes)
	})
}

func TestNewDialer_ValidatesCredentials(t *testing.T) {
	dial := NewDialer("http://localhost:1")
	_, err := dial(client.AuthModePassword, client.Credentials{Email: "nope"})
	assert.ErrorIs(t, err, client.ErrAuthentication)

	c, err := dial(client.AuthModeNone, client.Credentials{})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
