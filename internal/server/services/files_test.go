package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBucket(t *testing.T, e *env, storageQuota int64) (*models.User, *models.Bucket) {
	t.Helper()
	u := e.register(t, "alice@example.com")
	b, err := e.buckets.Create(context.Background(), u, "photos", storageQuota, 0)
	require.NoError(t, err)
	return u, b
}

func pushToken(t *testing.T, e *env, u *models.User, bucketID string) string {
	t.Helper()
	tok, err := e.buckets.CreateToken(context.Background(), u, bucketID, common.OperationPush)
	require.NoError(t, err)
	return tok.Token
}

func TestFileService_StoreOpenDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, b := setupBucket(t, e, 100)

	f, err := e.files.Store(ctx, b.ID, pushToken(t, e, u, b.ID), "dir/report.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "report.txt", f.Filename)
	assert.Equal(t, int64(5), f.Size)
	assert.Equal(t, b.ID, f.BucketID)

	got, err := e.buckets.Get(ctx, u, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Used)

	list, err := e.files.List(ctx, u, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	meta, rc, err := e.files.Open(ctx, u, b.ID, f.ID)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", meta.Mimetype)

	require.NoError(t, e.files.Delete(ctx, u, b.ID, f.ID))
	got, err = e.buckets.Get(ctx, u, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Used)
	assert.Equal(t, 0, e.blobs.Len())

	assert.ErrorIs(t, e.files.Delete(ctx, u, b.ID, f.ID), common.ErrNotFound)
}

func TestFileService_TokenIsSingleUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, b := setupBucket(t, e, 100)
	tok := pushToken(t, e, u, b.ID)

	_, err := e.files.Store(ctx, b.ID, tok, "a", "", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = e.files.Store(ctx, b.ID, tok, "a", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestFileService_TokenChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, b := setupBucket(t, e, 100)
	other, err := e.buckets.Create(ctx, u, "other", 0, 0)
	require.NoError(t, err)

	_, err = e.files.Store(ctx, b.ID, "garbage", "a", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = e.files.Store(ctx, b.ID, pushToken(t, e, u, other.ID), "a", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	pull, err := e.buckets.CreateToken(ctx, u, b.ID, common.OperationPull)
	require.NoError(t, err)
	_, err = e.files.Store(ctx, b.ID, pull.Token, "a", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, _, err := auth.GenerateToken(u.ID, b.ID, common.OperationPush, testSecret, -time.Second)
	require.NoError(t, err)
	_, err = e.files.Store(ctx, b.ID, expired, "a", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = e.files.Store(ctx, b.ID, pushToken(t, e, u, b.ID), "  ", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestFileService_QuotaExceeded(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, b := setupBucket(t, e, 8)

	_, err := e.files.Store(ctx, b.ID, pushToken(t, e, u, b.ID), "a", "", strings.NewReader("12345"))
	require.NoError(t, err)

	_, err = e.files.Store(ctx, b.ID, pushToken(t, e, u, b.ID), "b", "", strings.NewReader("12345"))
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)

	got, err := e.buckets.Get(ctx, u, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Used)
	assert.Equal(t, 1, e.blobs.Len())
}

type failingBlobs struct {
	storage.BlobStore
}

func (failingBlobs) Put(context.Context, string, io.Reader, int64) error {
	return errors.New("disk full")
}

func TestFileService_BlobFailureReleasesUsage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, b := setupBucket(t, e, 100)
	e.files.blobs = failingBlobs{e.blobs}

	_, err := e.files.Store(ctx, b.ID, pushToken(t, e, u, b.ID), "a", "", strings.NewReader("abc"))
	assert.ErrorIs(t, err, common.ErrInternal)

	got, err := e.buckets.Get(ctx, u, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Used)
}

func TestFileService_OtherUsersBucket(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, b := setupBucket(t, e, 100)
	bob := e.register(t, "bob@example.com")

	f, err := e.files.Store(ctx, b.ID, pushToken(t, e, u, b.ID), "a", "", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = e.files.List(ctx, bob, b.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, _, err = e.files.Open(ctx, bob, b.ID, f.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, e.files.Delete(ctx, bob, b.ID, f.ID), common.ErrNotFound)
}
