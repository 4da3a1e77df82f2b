package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
)

// Client is the bridge API as seen by the client services. *Session
// implements it.
type Client interface {
	CreateUser(ctx context.Context, email, password string) (*models.User, error)

	AddPublicKey(ctx context.Context, pubKey string) error
	GetPublicKeys(ctx context.Context) ([]models.PublicKey, error)
	DestroyPublicKey(ctx context.Context, pubKey string) error

	GetBuckets(ctx context.Context) ([]models.Bucket, error)
	GetBucket(ctx context.Context, id string) (*models.Bucket, error)
	CreateBucket(ctx context.Context, name string, quota *models.Quota) (*models.Bucket, error)
	DestroyBucket(ctx context.Context, id string) error

	CreateToken(ctx context.Context, bucketID, operation string) (*models.UploadToken, error)
	StoreFile(ctx context.Context, bucketID, token, filename, mimetype string, content io.Reader) (*models.StoredFile, error)
	ListFiles(ctx context.Context, bucketID string) ([]models.StoredFile, error)
	DownloadFile(ctx context.Context, bucketID, fileID string, w io.Writer) (int64, error)
	RemoveFile(ctx context.Context, bucketID, fileID string) error
}

var _ Client = (*Session)(nil)
