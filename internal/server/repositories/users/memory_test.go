package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Email: "a@b.c", Salt: []byte("s"), Verifier: []byte("v")})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	_, err = r.Create(ctx, &models.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	got, err := r.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got.Verifier)

	_, err = r.GetByEmail(ctx, "x@y.z")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
