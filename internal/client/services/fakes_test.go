package services

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/credential"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
)

// fakeClient records calls and serves preset results. Methods not
// overridden panic through the embedded nil interface.
type fakeClient struct {
	client.Client

	mu    sync.Mutex
	calls []string

	CreateUserRes *models.User
	CreateUserErr error

	Keys          []models.PublicKey
	GetKeysErr    error
	AddKeyErr     error
	DestroyKeyErr error
	AddedKeys     []string
	DestroyedKeys []string

	Buckets         []models.Bucket
	GetBucketsErr   error
	CreateBucketRes *models.Bucket
	CreateBucketErr error
	DestroyErr      error

	TokenErr   error
	StoreErr   error
	Stored     []byte
	StoredName string
	StoredMime string
	RemoveErr  error
	Removed    []string

	Files       []models.StoredFile
	Download    []byte
	DownloadErr error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	f.record("CreateUser")
	return f.CreateUserRes, f.CreateUserErr
}

func (f *fakeClient) AddPublicKey(ctx context.Context, pubKey string) error {
	f.record("AddPublicKey")
	f.AddedKeys = append(f.AddedKeys, pubKey)
	return f.AddKeyErr
}

func (f *fakeClient) GetPublicKeys(ctx context.Context) ([]models.PublicKey, error) {
	f.record("GetPublicKeys")
	return f.Keys, f.GetKeysErr
}

func (f *fakeClient) DestroyPublicKey(ctx context.Context, pubKey string) error {
	f.record("DestroyPublicKey")
	f.DestroyedKeys = append(f.DestroyedKeys, pubKey)
	return f.DestroyKeyErr
}

func (f *fakeClient) GetBuckets(ctx context.Context) ([]models.Bucket, error) {
	f.record("GetBuckets")
	return f.Buckets, f.GetBucketsErr
}

func (f *fakeClient) GetBucket(ctx context.Context, id string) (*models.Bucket, error) {
	f.record("GetBucket")
	for i := range f.Buckets {
		if f.Buckets[i].ID == id {
			return &f.Buckets[i], nil
		}
	}
	return nil, &client.ServiceError{StatusCode: 404, Message: "bucket not found"}
}

func (f *fakeClient) CreateBucket(ctx context.Context, name string, quota *models.Quota) (*models.Bucket, error) {
	f.record("CreateBucket")
	return f.CreateBucketRes, f.CreateBucketErr
}

func (f *fakeClient) DestroyBucket(ctx context.Context, id string) error {
	f.record("DestroyBucket")
	return f.DestroyErr
}

func (f *fakeClient) CreateToken(ctx context.Context, bucketID, operation string) (*models.UploadToken, error) {
	f.record("CreateToken")
	if f.TokenErr != nil {
		return nil, f.TokenErr
	}
	return &models.UploadToken{Token: "tok", Bucket: bucketID, Operation: operation}, nil
}

func (f *fakeClient) StoreFile(ctx context.Context, bucketID, token, filename, mimetype string, content io.Reader) (*models.StoredFile, error) {
	f.record("StoreFile")
	if f.StoreErr != nil {
		return nil, f.StoreErr
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.Stored, f.StoredName, f.StoredMime = b, filename, mimetype
	return &models.StoredFile{ID: "file-1", Bucket: bucketID, Filename: filename, Mimetype: mimetype, Size: int64(len(b))}, nil
}

func (f *fakeClient) ListFiles(ctx context.Context, bucketID string) ([]models.StoredFile, error) {
	f.record("ListFiles")
	return f.Files, nil
}

func (f *fakeClient) DownloadFile(ctx context.Context, bucketID, fileID string, w io.Writer) (int64, error) {
	f.record("DownloadFile")
	if f.DownloadErr != nil {
		return 0, f.DownloadErr
	}
	return io.Copy(w, bytes.NewReader(f.Download))
}

func (f *fakeClient) RemoveFile(ctx context.Context, bucketID, fileID string) error {
	f.record("RemoveFile")
	f.Removed = append(f.Removed, fileID)
	return f.RemoveErr
}

type fakeSecrets struct {
	mu      sync.Mutex
	entries map[string]models.KeyRingEntry
	SetErr  error
}

var _ SecretStore = (*fakeSecrets)(nil)

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{entries: map[string]models.KeyRingEntry{}}
}

func (s *fakeSecrets) Set(ctx context.Context, entry models.KeyRingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.entries[entry.FileID] = entry
	return nil
}

func (s *fakeSecrets) Get(ctx context.Context, fileID string) (*models.KeyRingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[fileID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

type fakeStore struct {
	cred    *models.Credential
	LoadErr error
	SaveErr error
}

var _ credential.Store = (*fakeStore)(nil)

func (s *fakeStore) Load(ctx context.Context) (*models.Credential, error) {
	return s.cred, s.LoadErr
}

func (s *fakeStore) Save(ctx context.Context, cred *models.Credential) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cred = cred
	return nil
}
