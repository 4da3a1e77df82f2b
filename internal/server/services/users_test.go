package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, "  Alice@Example.com ", hashPassword("pw"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.Verifier)

	_, err = e.users.Register(ctx, "alice@example.com", hashPassword("other"))
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = e.users.Register(ctx, "no-at-sign", hashPassword("pw"))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = e.users.Register(ctx, "bob@example.com", "plain-password")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_Authenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice@example.com")

	got, err := e.users.Authenticate(ctx, "ALICE@example.com", hashPassword("pw"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = e.users.Authenticate(ctx, "alice@example.com", hashPassword("wrong"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = e.users.Authenticate(ctx, "nobody@example.com", hashPassword("pw"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	got, err = e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}
