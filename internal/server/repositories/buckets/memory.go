package buckets

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	buckets map[string]*models.Bucket
	order   []string
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{buckets: map[string]*models.Bucket{}}
}

func (r *MemoryRepository) Create(_ context.Context, b *models.Bucket) (*models.Bucket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.buckets {
		if existing.UserID == b.UserID && existing.Name == b.Name {
			return nil, common.ErrAlreadyExists
		}
	}

	stored := *b
	stored.ID = uuid.NewString()
	stored.Created = time.Now().UTC()
	stored.Used = 0
	stored.PubKeys = []string{}
	r.buckets[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]models.Bucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.Bucket{}
	for _, id := range r.order {
		if b := r.buckets[id]; b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Bucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.buckets[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.buckets[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.buckets, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) AddUsage(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[id]
	if !ok {
		return common.ErrQuotaExceeded
	}
	used := b.Used + delta
	if used < 0 || used > b.Storage {
		return common.ErrQuotaExceeded
	}
	b.Used = used
	return nil
}
