package secrets

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"go.etcd.io/bbolt"
)

// BucketName is the bbolt bucket holding sealed records.
var BucketName = []byte("keyring")

type boltRecord struct {
	Ciphertext []byte
	Nonce      []byte
}

// BoltRepository stores records gob-encoded in a bbolt bucket. When tx is
// set, every call runs inside that transaction.
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

func (r *BoltRepository) Put(_ context.Context, rec *models.KeyRingRecord) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(boltRecord{Ciphertext: rec.Ciphertext, Nonce: rec.Nonce}); err != nil {
		return fmt.Errorf("failed to encode secret[%s]: %w", rec.FileID, err)
	}
	err := r.update(func(b *bbolt.Bucket) error {
		return b.Put([]byte(rec.FileID), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("failed to put secret[%s]: %w", rec.FileID, err)
	}
	return nil
}

func (r *BoltRepository) Get(_ context.Context, fileID string) (*models.KeyRingRecord, error) {
	var br boltRecord
	found := false
	err := r.view(func(b *bbolt.Bucket) error {
		v := b.Get([]byte(fileID))
		if v == nil {
			return nil
		}
		found = true
		return gob.NewDecoder(bytes.NewReader(v)).Decode(&br)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s]: %w", fileID, err)
	}
	if !found {
		return nil, common.ErrNotFound
	}
	return &models.KeyRingRecord{FileID: fileID, Ciphertext: br.Ciphertext, Nonce: br.Nonce}, nil
}

func (r *BoltRepository) Delete(_ context.Context, fileID string) error {
	found := false
	err := r.update(func(b *bbolt.Bucket) error {
		if b.Get([]byte(fileID)) == nil {
			return nil
		}
		found = true
		return b.Delete([]byte(fileID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete secret[%s]: %w", fileID, err)
	}
	if !found {
		return common.ErrNotFound
	}
	return nil
}

func (r *BoltRepository) List(_ context.Context) ([]string, error) {
	ids := []string{}
	err := r.view(func(b *bbolt.Bucket) error {
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	return ids, nil
}
