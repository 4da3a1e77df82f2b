package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/storage"
	"github.com/zeebo/errs"
)

// FileService stores and serves file content.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	secretKey   []byte
	usedTokens  *auth.ReplayCache
	spoolDir    string
	logger      logging.Logger
}

// NewFileService returns a FileService. usedTokens remembers consumed
// token ids and must retain them for at least the token lifetime. Uploads
// are spooled to spoolDir, or the system temp dir when empty.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, secretKey []byte, usedTokens *auth.ReplayCache, spoolDir string, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		secretKey:   secretKey,
		usedTokens:  usedTokens,
		spoolDir:    spoolDir,
		logger:      logger,
	}
}

// Store pushes body into bucketID as filename, authorized by a PUSH token
// for that bucket. The token is consumed even if the push then fails. The
// bucket's used bytes grow by the stored size; a body larger than the
// remaining quota fails with common.ErrQuotaExceeded.
func (s *FileService) Store(ctx context.Context, bucketID, token, filename, mimetype string, body io.Reader) (*models.File, error) {
	claims, err := auth.ParseToken(token, s.secretKey)
	if err != nil {
		return nil, err
	}
	if claims.Bucket != bucketID || claims.Operation != common.OperationPush {
		return nil, fmt.Errorf("%w: token does not allow this push", common.ErrInvalidToken)
	}
	if err := s.usedTokens.Use(claims.ID); err != nil {
		return nil, fmt.Errorf("%w: token already used", common.ErrInvalidToken)
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename is empty", common.ErrValidation)
	}
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	buckets := s.repomanager.Buckets(conn(s.db))
	b, err := buckets.Get(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	if b.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: token does not allow this push", common.ErrInvalidToken)
	}

	spool, size, err := s.spool(body, b.Storage-b.Used)
	if err != nil {
		return nil, err
	}
	defer func() {
		spool.Close()
		os.Remove(spool.Name())
	}()

	if err := buckets.AddUsage(ctx, bucketID, size); err != nil {
		return nil, err
	}
	release := func(err error) error {
		return errs.Combine(err, buckets.AddUsage(context.WithoutCancel(ctx), bucketID, -size))
	}

	key := storage.NewBlobKey(bucketID)
	if err := s.blobs.Put(ctx, key, spool, size); err != nil {
		return nil, release(fmt.Errorf("%w: store blob: %w", common.ErrInternal, err))
	}

	f, err := s.repomanager.Files(conn(s.db)).Create(ctx, &models.File{
		BucketID: bucketID,
		Filename: filename,
		Mimetype: mimetype,
		Size:     size,
		BlobKey:  key,
	})
	if err != nil {
		return nil, release(errs.Combine(err, s.blobs.Delete(context.WithoutCancel(ctx), key)))
	}

	s.logger.Info(ctx, "file stored", "bucket", bucketID, "file", f.ID, "size", size)
	return f, nil
}

// spool copies at most limit bytes of body to a temp file positioned at
// its start.
func (s *FileService) spool(body io.Reader, limit int64) (*os.File, int64, error) {
	if limit < 0 {
		limit = 0
	}
	f, err := os.CreateTemp(s.spoolDir, "bridge-upload-*")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	fail := func(err error) (*os.File, int64, error) {
		f.Close()
		os.Remove(f.Name())
		return nil, 0, err
	}

	n, err := io.Copy(f, io.LimitReader(body, limit+1))
	if err != nil {
		return fail(fmt.Errorf("%w: read upload: %w", common.ErrValidation, err))
	}
	if n > limit {
		return fail(fmt.Errorf("%w: file exceeds the remaining %d bytes", common.ErrQuotaExceeded, limit))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail(fmt.Errorf("%w: %w", common.ErrInternal, err))
	}
	return f, n, nil
}

// List returns the files of a bucket of user, never nil.
func (s *FileService) List(ctx context.Context, user *models.User, bucketID string) ([]models.File, error) {
	if _, err := ownedBucket(ctx, s.repomanager.Buckets(conn(s.db)), user.ID, bucketID); err != nil {
		return nil, err
	}
	return s.repomanager.Files(conn(s.db)).ListByBucket(ctx, bucketID)
}

// Open returns a file of user with a reader of its content. The caller
// closes the reader.
func (s *FileService) Open(ctx context.Context, user *models.User, bucketID, fileID string) (*models.File, io.ReadCloser, error) {
	if _, err := ownedBucket(ctx, s.repomanager.Buckets(conn(s.db)), user.ID, bucketID); err != nil {
		return nil, nil, err
	}
	f, err := s.repomanager.Files(conn(s.db)).Get(ctx, bucketID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, f.BlobKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: content of file %s is missing", common.ErrInternal, fileID)
		}
		return nil, nil, err
	}
	return f, rc, nil
}

// Delete removes a file and returns its bytes to the bucket quota.
func (s *FileService) Delete(ctx context.Context, user *models.User, bucketID, fileID string) error {
	var blobKey string
	err := withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := ownedBucket(ctx, s.repomanager.Buckets(tx), user.ID, bucketID); err != nil {
			return err
		}
		files := s.repomanager.Files(tx)
		f, err := files.Get(ctx, bucketID, fileID)
		if err != nil {
			return err
		}
		if err := files.Delete(ctx, bucketID, fileID); err != nil {
			return err
		}
		blobKey = f.BlobKey
		return s.repomanager.Buckets(tx).AddUsage(ctx, bucketID, -f.Size)
	})
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, blobKey); err != nil && !errors.Is(err, common.ErrNotFound) {
		s.logger.Warn(ctx, "failed to delete blob", "bucket", bucketID, "key", blobKey, "error", err)
	}
	return nil
}
