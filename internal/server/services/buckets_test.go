package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketService_Create(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")

	b, err := e.buckets.Create(ctx, alice, " photos ", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "photos", b.Name)
	assert.Equal(t, int64(1024), b.Storage)
	assert.Equal(t, int64(2048), b.Transfer)
	assert.Equal(t, models.BucketStatusActive, b.Status)
	assert.Equal(t, "alice@example.com", b.User)
	assert.NotNil(t, b.PubKeys)

	b2, err := e.buckets.Create(ctx, alice, "docs", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(10), b2.Storage)

	_, err = e.buckets.Create(ctx, alice, "photos", 0, 0)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	_, err = e.buckets.Create(ctx, alice, "  ", 0, 0)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = e.buckets.Create(ctx, alice, "neg", -1, 0)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestBucketService_OwnerScope(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")
	bob := e.register(t, "bob@example.com")

	b, err := e.buckets.Create(ctx, alice, "photos", 0, 0)
	require.NoError(t, err)

	_, err = e.buckets.Get(ctx, bob, b.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, e.buckets.Delete(ctx, bob, b.ID), common.ErrNotFound)
	_, err = e.buckets.CreateToken(ctx, bob, b.ID, common.OperationPush)
	assert.ErrorIs(t, err, common.ErrNotFound)

	list, err := e.buckets.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = e.buckets.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestBucketService_CreateToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")
	b, err := e.buckets.Create(ctx, alice, "photos", 0, 0)
	require.NoError(t, err)

	tok, err := e.buckets.CreateToken(ctx, alice, b.ID, common.OperationPush)
	require.NoError(t, err)
	assert.Equal(t, b.ID, tok.Bucket)
	assert.Equal(t, common.OperationPush, tok.Operation)
	assert.False(t, tok.Expires.IsZero())

	claims, err := auth.ParseToken(tok.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.Subject)

	_, err = e.buckets.CreateToken(ctx, alice, b.ID, "WRITE")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestBucketService_DeleteRemovesFiles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")
	b, err := e.buckets.Create(ctx, alice, "photos", 0, 0)
	require.NoError(t, err)

	tok, err := e.buckets.CreateToken(ctx, alice, b.ID, common.OperationPush)
	require.NoError(t, err)
	_, err = e.files.Store(ctx, b.ID, tok.Token, "a.bin", "", strings.NewReader("abc"))
	require.NoError(t, err)
	require.Equal(t, 1, e.blobs.Len())

	require.NoError(t, e.buckets.Delete(ctx, alice, b.ID))
	assert.Equal(t, 0, e.blobs.Len())

	files, err := e.manager.Files(nil).ListByBucket(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = e.buckets.Get(ctx, alice, b.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
