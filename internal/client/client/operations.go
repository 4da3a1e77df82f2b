package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/netx"
)

// CreateUser registers a new account. The password is sent as its SHA-256
// hex digest.
func (s *Session) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationError("email and password are required")
	}
	var u models.User
	err := s.Do(ctx, Operation{http.MethodPost, "/users"},
		Params{"email": email, "password": HashPassword(password)}, &u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Session) AddPublicKey(ctx context.Context, pubKey string) error {
	if pubKey == "" {
		return validationError("public key is empty")
	}
	if err := s.Do(ctx, Operation{http.MethodPost, "/keys"}, Params{"key": pubKey}, nil); err != nil {
		return fmt.Errorf("add public key: %w", err)
	}
	return nil
}

func (s *Session) GetPublicKeys(ctx context.Context) ([]models.PublicKey, error) {
	keys := []models.PublicKey{}
	if err := s.Do(ctx, Operation{http.MethodGet, "/keys"}, nil, &keys); err != nil {
		return nil, fmt.Errorf("get public keys: %w", err)
	}
	return keys, nil
}

func (s *Session) DestroyPublicKey(ctx context.Context, pubKey string) error {
	key, err := segment("public key", pubKey)
	if err != nil {
		return err
	}
	if err := s.Do(ctx, Operation{http.MethodDelete, "/keys/" + key}, nil, nil); err != nil {
		return fmt.Errorf("destroy public key: %w", err)
	}
	return nil
}

func (s *Session) GetBuckets(ctx context.Context) ([]models.Bucket, error) {
	buckets := []models.Bucket{}
	if err := s.Do(ctx, Operation{http.MethodGet, "/buckets"}, nil, &buckets); err != nil {
		return nil, fmt.Errorf("get buckets: %w", err)
	}
	return buckets, nil
}

func (s *Session) GetBucket(ctx context.Context, id string) (*models.Bucket, error) {
	id, err := segment("bucket id", id)
	if err != nil {
		return nil, err
	}
	var b models.Bucket
	if err := s.Do(ctx, Operation{http.MethodGet, "/buckets/" + id}, nil, &b); err != nil {
		return nil, fmt.Errorf("get bucket: %w", err)
	}
	return &b, nil
}

func (s *Session) CreateBucket(ctx context.Context, name string, quota *models.Quota) (*models.Bucket, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("bucket name is empty")
	}
	params := Params{"name": name}
	if quota != nil {
		if quota.Storage < 0 || quota.Transfer < 0 {
			return nil, validationError("bucket quota must not be negative")
		}
		if quota.Storage > 0 {
			params["storage"] = quota.Storage
		}
		if quota.Transfer > 0 {
			params["transfer"] = quota.Transfer
		}
	}

	var b models.Bucket
	if err := s.Do(ctx, Operation{http.MethodPost, "/buckets"}, params, &b); err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &b, nil
}

func (s *Session) DestroyBucket(ctx context.Context, id string) error {
	id, err := segment("bucket id", id)
	if err != nil {
		return err
	}
	if err := s.Do(ctx, Operation{http.MethodDelete, "/buckets/" + id}, nil, nil); err != nil {
		return fmt.Errorf("destroy bucket: %w", err)
	}
	return nil
}

// CreateToken asks for a single-use token for operation (PUSH or PULL) on
// bucketID.
func (s *Session) CreateToken(ctx context.Context, bucketID, operation string) (*models.UploadToken, error) {
	bucketID, err := segment("bucket id", bucketID)
	if err != nil {
		return nil, err
	}
	if operation != common.OperationPush && operation != common.OperationPull {
		return nil, validationError("unknown token operation " + operation)
	}
	var tok models.UploadToken
	err = s.Do(ctx, Operation{http.MethodPost, "/buckets/" + bucketID + "/tokens"},
		Params{"operation": operation}, &tok)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &tok, nil
}

// StoreFile pushes content into bucketID using a PUSH token. The body is
// streamed as multipart form data.
func (s *Session) StoreFile(ctx context.Context, bucketID, token, filename, mimetype string, content io.Reader) (*models.StoredFile, error) {
	if bucketID == "" || token == "" || filename == "" {
		return nil, validationError("bucket id, token and filename are required")
	}
	bucketID, err := segment("bucket id", bucketID)
	if err != nil {
		return nil, err
	}

	body, contentType := netx.MultipartFile("data", filename, mimetype, content)
	defer body.Close()

	var sf models.StoredFile
	raw := &rawBody{
		body:        body,
		contentType: contentType,
		header:      http.Header{http.CanonicalHeaderKey(common.TokenHeaderName): []string{token}},
	}
	err = s.send(ctx, Operation{http.MethodPost, "/buckets/" + bucketID + "/files"}, nil, raw, s.transferTimeout,
		func(resp *http.Response) error {
			return decodeJSON(resp, &sf)
		})
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	return &sf, nil
}

func (s *Session) ListFiles(ctx context.Context, bucketID string) ([]models.StoredFile, error) {
	bucketID, err := segment("bucket id", bucketID)
	if err != nil {
		return nil, err
	}
	files := []models.StoredFile{}
	if err := s.Do(ctx, Operation{http.MethodGet, "/buckets/" + bucketID + "/files"}, nil, &files); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// DownloadFile copies the stored (encrypted) content of fileID into w.
func (s *Session) DownloadFile(ctx context.Context, bucketID, fileID string, w io.Writer) (int64, error) {
	if bucketID == "" || fileID == "" {
		return 0, validationError("bucket id and file id are required")
	}
	path, err := filePath(bucketID, fileID)
	if err != nil {
		return 0, err
	}
	var n int64
	op := Operation{http.MethodGet, path}
	err = s.send(ctx, op, nil, nil, s.transferTimeout, func(resp *http.Response) error {
		var err error
		n, err = io.Copy(w, resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNetwork, err)
		}
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("download file: %w", err)
	}
	return n, nil
}

func (s *Session) RemoveFile(ctx context.Context, bucketID, fileID string) error {
	if bucketID == "" || fileID == "" {
		return validationError("bucket id and file id are required")
	}
	path, err := filePath(bucketID, fileID)
	if err != nil {
		return err
	}
	op := Operation{http.MethodDelete, path}
	if err := s.Do(ctx, op, nil, nil); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// segment checks that id can be used as a single path segment. Empty ids,
// dot segments and ids holding a separator would reach a different route.
func segment(what, id string) (string, error) {
	switch {
	case id == "":
		return "", validationError(what + " is empty")
	case id == "." || id == "..", strings.ContainsAny(id, "/\\?#%"):
		return "", validationError(fmt.Sprintf("%s %q is not a valid path segment", what, id))
	}
	return id, nil
}

func filePath(bucketID, fileID string) (string, error) {
	b, err := segment("bucket id", bucketID)
	if err != nil {
		return "", err
	}
	f, err := segment("file id", fileID)
	if err != nil {
		return "", err
	}
	return "/buckets/" + b + "/files/" + f, nil
}
