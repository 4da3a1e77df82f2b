package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

type env struct {
	manager *repomanager.MemoryRepositoryManager
	blobs   *storage.MemoryStore
	users   *UserService
	keys    *KeyService
	buckets *BucketService
	files   *FileService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	blobs := storage.NewMemoryStore()
	log := logging.NewZapLogger(zap.NewNop())

	return &env{
		manager: m,
		blobs:   blobs,
		users:   NewUserService(nil, m),
		keys:    NewKeyService(nil, m),
		buckets: NewBucketService(nil, m, blobs, BucketOptions{
			DefaultStorage:  1024,
			DefaultTransfer: 2048,
			SecretKey:       testSecret,
			TokenTTL:        time.Minute,
		}, log),
		files: NewFileService(nil, m, blobs, testSecret, auth.NewReplayCache(time.Minute), t.TempDir(), log),
	}
}

func hashPassword(p string) string {
	sum := sha256.Sum256([]byte(p))
	return hex.EncodeToString(sum[:])
}

func (e *env) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), email, hashPassword("pw"))
	require.NoError(t, err)
	return u
}
