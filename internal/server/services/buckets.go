package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/buckets"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/storage"
)

// BucketOptions are the bucket defaults and token settings.
type BucketOptions struct {
	DefaultStorage  int64
	DefaultTransfer int64
	SecretKey       []byte
	TokenTTL        time.Duration
}

// BucketService manages buckets and issues bucket tokens.
type BucketService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	opts        BucketOptions
	logger      logging.Logger
}

func NewBucketService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, opts BucketOptions, logger logging.Logger) *BucketService {
	return &BucketService{db: db, repomanager: m, blobs: blobs, opts: opts, logger: logger}
}

// Create makes a bucket owned by user. Zero quotas take the defaults.
func (s *BucketService) Create(ctx context.Context, user *models.User, name string, storageQuota, transferQuota int64) (*models.Bucket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: bucket name is empty", common.ErrValidation)
	}
	if storageQuota < 0 || transferQuota < 0 {
		return nil, fmt.Errorf("%w: bucket quota must not be negative", common.ErrValidation)
	}
	if storageQuota == 0 {
		storageQuota = s.opts.DefaultStorage
	}
	if transferQuota == 0 {
		transferQuota = s.opts.DefaultTransfer
	}

	b, err := s.repomanager.Buckets(conn(s.db)).Create(ctx, &models.Bucket{
		UserID:   user.ID,
		Name:     name,
		Storage:  storageQuota,
		Transfer: transferQuota,
		Status:   models.BucketStatusActive,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: bucket %q already exists", common.ErrAlreadyExists, name)
		}
		return nil, err
	}
	return s.decorate(ctx, user, b)
}

// List returns the user's buckets, never nil.
func (s *BucketService) List(ctx context.Context, user *models.User) ([]models.Bucket, error) {
	list, err := s.repomanager.Buckets(conn(s.db)).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	keys, err := s.pubKeys(ctx, user)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].User = user.Email
		list[i].PubKeys = keys
	}
	return list, nil
}

// Get returns a bucket of user. Buckets of other users are not found.
func (s *BucketService) Get(ctx context.Context, user *models.User, id string) (*models.Bucket, error) {
	b, err := ownedBucket(ctx, s.repomanager.Buckets(conn(s.db)), user.ID, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, user, b)
}

// Delete removes a bucket with its files. Blobs are removed after the
// records; a blob that fails to go is only logged.
func (s *BucketService) Delete(ctx context.Context, user *models.User, id string) error {
	var blobKeys []string
	err := withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := ownedBucket(ctx, s.repomanager.Buckets(tx), user.ID, id); err != nil {
			return err
		}
		filesRepo := s.repomanager.Files(tx)
		list, err := filesRepo.ListByBucket(ctx, id)
		if err != nil {
			return err
		}
		for _, f := range list {
			if err := filesRepo.Delete(ctx, id, f.ID); err != nil {
				return err
			}
			blobKeys = append(blobKeys, f.BlobKey)
		}
		return s.repomanager.Buckets(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, key := range blobKeys {
		if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "failed to delete blob", "bucket", id, "key", key, "error", err)
		}
	}
	return nil
}

// CreateToken issues a single-use token for operation on a bucket of user.
func (s *BucketService) CreateToken(ctx context.Context, user *models.User, bucketID, operation string) (*models.Token, error) {
	if operation != common.OperationPush && operation != common.OperationPull {
		return nil, fmt.Errorf("%w: unknown token operation %q", common.ErrValidation, operation)
	}
	if _, err := ownedBucket(ctx, s.repomanager.Buckets(conn(s.db)), user.ID, bucketID); err != nil {
		return nil, err
	}

	token, claims, err := auth.GenerateToken(user.ID, bucketID, operation, s.opts.SecretKey, s.opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return &models.Token{
		Token:     token,
		Bucket:    bucketID,
		Operation: operation,
		Expires:   claims.ExpiresAt.Time,
	}, nil
}

// ownedBucket returns bucket id if it belongs to userID. Buckets of other
// users are reported as not found.
func ownedBucket(ctx context.Context, repo buckets.Repository, userID, id string) (*models.Bucket, error) {
	b, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrNotFound
	}
	return b, nil
}

func (s *BucketService) decorate(ctx context.Context, user *models.User, b *models.Bucket) (*models.Bucket, error) {
	keys, err := s.pubKeys(ctx, user)
	if err != nil {
		return nil, err
	}
	b.User = user.Email
	b.PubKeys = keys
	return b, nil
}

func (s *BucketService) pubKeys(ctx context.Context, user *models.User) ([]string, error) {
	keys, err := s.repomanager.Keys(conn(s.db)).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Key)
	}
	return out, nil
}
