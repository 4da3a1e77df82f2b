package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/cryptox"
)

// SecretStore is the part of the key ring used by the file services.
type SecretStore interface {
	Set(ctx context.Context, entry models.KeyRingEntry) error
	Get(ctx context.Context, fileID string) (*models.KeyRingEntry, error)
}

// FileService lists stored files and downloads them decrypted.
type FileService interface {
	List(ctx context.Context, bucketID string) ([]models.StoredFile, error)
	// Download writes the plaintext of fileID to dst and returns the number
	// of bytes written. The file secret must be in the key ring.
	Download(ctx context.Context, bucketID, fileID string, dst io.Writer) (int64, error)
}

type fileService struct {
	client  client.Client
	secrets SecretStore
}

func NewFileService(c client.Client, secrets SecretStore) FileService {
	return &fileService{client: c, secrets: secrets}
}

func (s *fileService) List(ctx context.Context, bucketID string) ([]models.StoredFile, error) {
	if bucketID == "" {
		return nil, fmt.Errorf("%w: bucket id is empty", client.ErrValidation)
	}
	files, err := s.client.ListFiles(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []models.StoredFile{}, client.ErrEmptyResult
	}
	return files, nil
}

func (s *fileService) Download(ctx context.Context, bucketID, fileID string, dst io.Writer) (int64, error) {
	if bucketID == "" || fileID == "" {
		return 0, fmt.Errorf("%w: bucket id and file id are required", client.ErrValidation)
	}

	entry, err := s.secrets.Get(ctx, fileID)
	if errors.Is(err, common.ErrNotFound) {
		return 0, fmt.Errorf("%w: no key ring secret for file %s", client.ErrNotFound, fileID)
	}
	if err != nil {
		return 0, err
	}

	dc := &cryptox.DataCipher{Key: entry.Key, IV: entry.IV}
	w, err := dc.DecryptWriter(dst)
	if err != nil {
		return 0, err
	}
	return s.client.DownloadFile(ctx, bucketID, fileID, w)
}
