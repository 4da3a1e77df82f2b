package keys

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	keys  map[string]string // key -> user id
	order []string
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{keys: map[string]string{}}
}

func (r *MemoryRepository) Add(_ context.Context, userID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[key]; ok {
		return common.ErrAlreadyExists
	}
	r.keys[key] = userID
	r.order = append(r.order, key)
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]models.PublicKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.PublicKey{}
	for _, k := range r.order {
		if r.keys[k] == userID {
			result = append(result, models.PublicKey{Key: k, UserID: userID})
		}
	}
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, key string) (*models.PublicKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.keys[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.PublicKey{Key: key, UserID: userID}, nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.keys[key]; !ok || owner != userID {
		return common.ErrNotFound
	}
	delete(r.keys, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
