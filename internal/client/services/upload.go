package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/cryptox"
	"github.com/dmitrijs2005/bridgekeeper/internal/filex"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/google/uuid"
	"github.com/zeebo/errs"
)

// newDataCipher is a test seam.
var newDataCipher = cryptox.NewDataCipher

// UploadState is a stage of the upload pipeline.
type UploadState string

const (
	StateEncrypting  UploadState = "Encrypting"
	StateEncrypted   UploadState = "Encrypted"
	StateAuthorizing UploadState = "Authorizing"
	StateAuthorized  UploadState = "Authorized"
	StateUploading   UploadState = "Uploading"
	StateStored      UploadState = "Stored"
	StateRecording   UploadState = "Recording"
	StateRecorded    UploadState = "Recorded"
	StateDone        UploadState = "Done"
	StateFailed      UploadState = "Failed"
)

// UploadError reports the state in which an upload failed.
type UploadError struct {
	State UploadState
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed while %s: %v", e.State, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// UploadService encrypts a local file, pushes it to a bucket and records
// its secret in the key ring.
type UploadService interface {
	// Upload runs the whole pipeline once. There is no automatic retry; any
	// failure is an *UploadError and leaves no temporary artifact behind.
	Upload(ctx context.Context, bucketID, path string) (*models.StoredFile, error)
}

// UploadOption customizes the upload service.
type UploadOption func(*uploadService)

// WithStateObserver registers fn to be called on every state transition,
// Failed included.
func WithStateObserver(fn func(UploadState)) UploadOption {
	return func(s *uploadService) {
		s.observe = fn
	}
}

type uploadService struct {
	client  client.Client
	secrets SecretStore
	tempDir string
	log     logging.Logger
	observe func(UploadState)
}

func NewUploadService(c client.Client, secrets SecretStore, tempDir string, log logging.Logger, opts ...UploadOption) UploadService {
	s := &uploadService{client: c, secrets: secrets, tempDir: tempDir, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// upload is the state of a single pipeline run.
type upload struct {
	svc      *uploadService
	bucketID string
	path     string
	state    UploadState
	artifact string
}

func (s *uploadService) Upload(ctx context.Context, bucketID, path string) (*models.StoredFile, error) {
	u := &upload{svc: s, bucketID: bucketID, path: path}
	file, err := u.run(ctx)
	if err != nil {
		failedIn := u.state
		if u.artifact != "" {
			if rmErr := filex.RemoveIfExists(u.artifact); rmErr != nil {
				err = errs.Combine(err, fmt.Errorf("%w: %w", client.ErrIO, rmErr))
			}
		}
		u.enter(StateFailed)
		s.log.Error(ctx, "upload failed", "state", string(failedIn), "file", path, "error", err)
		return nil, &UploadError{State: failedIn, Err: err}
	}
	return file, nil
}

func (u *upload) enter(state UploadState) {
	u.state = state
	if u.svc.observe != nil {
		u.svc.observe(state)
	}
}

func (u *upload) run(ctx context.Context) (*models.StoredFile, error) {
	u.enter(StateEncrypting)
	if u.bucketID == "" || u.path == "" {
		return nil, fmt.Errorf("%w: bucket id and file path are required", client.ErrValidation)
	}
	dc, err := u.encrypt(ctx)
	if err != nil {
		return nil, err
	}
	u.enter(StateEncrypted)

	u.enter(StateAuthorizing)
	token, err := u.svc.client.CreateToken(ctx, u.bucketID, common.OperationPush)
	if err != nil {
		return nil, err
	}
	u.enter(StateAuthorized)

	u.enter(StateUploading)
	file, err := u.push(ctx, token.Token)
	if err != nil {
		return nil, err
	}
	u.enter(StateStored)

	u.enter(StateRecording)
	err = u.svc.secrets.Set(ctx, models.KeyRingEntry{FileID: file.ID, Key: dc.Key, IV: dc.IV})
	if err != nil {
		// the stored file is unreadable without its secret
		rmErr := u.svc.client.RemoveFile(context.WithoutCancel(ctx), u.bucketID, file.ID)
		return nil, errs.Combine(err, rmErr)
	}
	u.enter(StateRecorded)

	if err := filex.RemoveIfExists(u.artifact); err != nil {
		u.svc.log.Warn(ctx, "failed to remove encrypted artifact", "path", u.artifact, "error", err)
	}
	u.artifact = ""
	u.enter(StateDone)

	u.svc.log.Info(ctx, "file uploaded",
		"name", file.Filename, "type", file.Mimetype, "size", file.Size, "id", file.ID)
	return file, nil
}

// encrypt writes the ciphertext of the source file to a fresh artifact in
// the temp dir and returns the secret used.
func (u *upload) encrypt(ctx context.Context) (*cryptox.DataCipher, error) {
	src, err := os.Open(u.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open source: %w", client.ErrIO, err)
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat source: %w", client.ErrIO, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", client.ErrIO, u.path)
	}

	dir, err := filex.EnsureDir(u.svc.tempDir)
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %w", client.ErrIO, err)
	}

	dc, err := newDataCipher()
	if err != nil {
		return nil, fmt.Errorf("%w: new cipher: %w", client.ErrIO, err)
	}

	u.artifact = filepath.Join(dir, fmt.Sprintf("%s.%s.crypt", filepath.Base(u.path), uuid.NewString()))
	dst, err := os.OpenFile(u.artifact, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create artifact: %w", client.ErrIO, err)
	}

	_, err = dc.EncryptStream(dst, filex.ContextReader(ctx, src))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: encrypt: %w", client.ErrIO, err)
	}
	return dc, nil
}

func (u *upload) push(ctx context.Context, token string) (*models.StoredFile, error) {
	f, err := os.Open(u.artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: open artifact: %w", client.ErrIO, err)
	}
	defer f.Close()

	return u.svc.client.StoreFile(ctx, u.bucketID, token, filepath.Base(u.path), mimeType(u.path), f)
}

func mimeType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
