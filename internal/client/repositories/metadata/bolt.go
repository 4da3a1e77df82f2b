package metadata

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// BucketName is the bbolt bucket holding metadata.
var BucketName = []byte("metadata")

// BoltRepository stores metadata in a bbolt bucket. When tx is set, every
// call runs inside that transaction; otherwise each call opens its own.
type BoltRepository struct {
	db *bbolt.DB
	tx *bbolt.Tx
}

var _ Repository = (*BoltRepository)(nil)

func NewBoltRepository(db *bbolt.DB, tx *bbolt.Tx) *BoltRepository {
	return &BoltRepository{db: db, tx: tx}
}

func (r *BoltRepository) view(fn func(*bbolt.Bucket) error) error {
	if r.tx != nil {
		return fn(r.tx.Bucket(BucketName))
	}
	return r.db.View(func(tx *bbolt.Tx) error { return fn(tx.Bucket(BucketName)) })
}

func (r *BoltRepository) update(fn func(*bbolt.Bucket) error) error {
	if r.tx != nil {
		return fn(r.tx.Bucket(BucketName))
	}
	return r.db.Update(func(tx *bbolt.Tx) error { return fn(tx.Bucket(BucketName)) })
}

func (r *BoltRepository) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.view(func(b *bbolt.Bucket) error {
		if v := b.Get([]byte(key)); v != nil {
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *BoltRepository) Set(_ context.Context, key string, value []byte) error {
	err := r.update(func(b *bbolt.Bucket) error {
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BoltRepository) Delete(_ context.Context, key string) error {
	err := r.update(func(b *bbolt.Bucket) error {
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}
