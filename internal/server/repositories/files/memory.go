package files

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	files map[string]models.File
	order []string
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: map[string]models.File{}}
}

func (r *MemoryRepository) Create(_ context.Context, f *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *f
	stored.ID = uuid.NewString()
	stored.Created = time.Now().UTC()
	r.files[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return &stored, nil
}

func (r *MemoryRepository) ListByBucket(_ context.Context, bucketID string) ([]models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.File{}
	for _, id := range r.order {
		if f := r.files[id]; f.BucketID == bucketID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, bucketID, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok || f.BucketID != bucketID {
		return nil, common.ErrNotFound
	}
	return &f, nil
}

func (r *MemoryRepository) Delete(_ context.Context, bucketID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok || f.BucketID != bucketID {
		return common.ErrNotFound
	}
	delete(r.files, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
