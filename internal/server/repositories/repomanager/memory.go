package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bridgekeeper/internal/dbx"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/buckets"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/files"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/keys"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. The DBTX
// argument is ignored and the same repositories are returned every time;
// there are no transactions.
type MemoryRepositoryManager struct {
	users   *users.MemoryRepository
	keys    *keys.MemoryRepository
	buckets *buckets.MemoryRepository
	files   *files.MemoryRepository
}

var _ RepositoryManager = (*MemoryRepositoryManager)(nil)

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:   users.NewMemoryRepository(),
		keys:    keys.NewMemoryRepository(),
		buckets: buckets.NewMemoryRepository(),
		files:   files.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Keys(dbx.DBTX) keys.Repository {
	return m.keys
}

func (m *MemoryRepositoryManager) Buckets(dbx.DBTX) buckets.Repository {
	return m.buckets
}

func (m *MemoryRepositoryManager) Files(dbx.DBTX) files.Repository {
	return m.files
}
