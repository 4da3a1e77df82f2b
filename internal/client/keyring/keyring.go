// Package keyring keeps the per-file cipher secrets of uploaded files.
//
// Entries are sealed with AES-GCM under a master key derived from the key
// ring passphrase with argon2id. The salt and a verifier of the master key
// are stored next to the entries so that a wrong passphrase is detected on
// Open rather than on the first decrypt.
package keyring

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/repositories"
	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/cryptox"
	"github.com/zeebo/errs"
)

const (
	saltKey     = "salt"
	verifierKey = "verifier"
)

// Error is the error class for this package.
var Error = errs.Class("keyring")

var (
	ErrPassphrase = errors.New("wrong key ring passphrase")
	ErrClosed     = errors.New("key ring is closed")
)

// secret is the sealed payload of an entry.
type secret struct {
	Key []byte `json:"key"`
	IV  []byte `json:"iv"`
}

// KeyRing is safe for concurrent use.
type KeyRing struct {
	mu    sync.Mutex
	repos *repositories.Repositories
	key   []byte
}

// Open unlocks the key ring stored in repos. The first Open on an empty
// database initializes it with a fresh salt.
func Open(ctx context.Context, repos *repositories.Repositories, passphrase []byte) (*KeyRing, error) {
	if len(passphrase) == 0 {
		return nil, Error.Wrap(ErrPassphrase)
	}

	var key []byte
	err := repos.WithTx(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		salt, err := r.Metadata.Get(ctx, saltKey)
		if err != nil {
			return err
		}
		verifier, err := r.Metadata.Get(ctx, verifierKey)
		if err != nil {
			return err
		}

		if salt == nil || verifier == nil {
			salt = common.GenerateRandByteArray(cryptox.SaltSize)
			key = cryptox.DeriveMasterKey(passphrase, salt)
			if err := r.Metadata.Set(ctx, saltKey, salt); err != nil {
				return err
			}
			return r.Metadata.Set(ctx, verifierKey, cryptox.MakeVerifier(key))
		}

		key = cryptox.DeriveMasterKey(passphrase, salt)
		if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), verifier) != 1 {
			return ErrPassphrase
		}
		return nil
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return &KeyRing{repos: repos, key: key}, nil
}

func (k *KeyRing) masterKey() ([]byte, error) {
	if k.key == nil {
		return nil, ErrClosed
	}
	return k.key, nil
}

// Set stores the secret of entry.FileID, replacing any previous one.
func (k *KeyRing) Set(ctx context.Context, entry models.KeyRingEntry) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	key, err := k.masterKey()
	if err != nil {
		return Error.Wrap(err)
	}
	if entry.FileID == "" {
		return Error.New("file id is empty")
	}

	ct, nonce, err := cryptox.EncryptEntry(secret{Key: entry.Key, IV: entry.IV}, key)
	if err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(k.repos.Secrets.Put(ctx, &models.KeyRingRecord{FileID: entry.FileID, Ciphertext: ct, Nonce: nonce}))
}

// Get returns the secret of fileID, or common.ErrNotFound.
func (k *KeyRing) Get(ctx context.Context, fileID string) (*models.KeyRingEntry, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	key, err := k.masterKey()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	rec, err := k.repos.Secrets.Get(ctx, fileID)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	var s secret
	if err := cryptox.DecryptEntry(rec.Ciphertext, rec.Nonce, key, &s); err != nil {
		return nil, Error.Wrap(err)
	}
	return &models.KeyRingEntry{FileID: fileID, Key: s.Key, IV: s.IV}, nil
}

func (k *KeyRing) Delete(ctx context.Context, fileID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.masterKey(); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(k.repos.Secrets.Delete(ctx, fileID))
}

// List returns the file ids that have a secret.
func (k *KeyRing) List(ctx context.Context) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.masterKey(); err != nil {
		return nil, Error.Wrap(err)
	}
	ids, err := k.repos.Secrets.List(ctx)
	return ids, Error.Wrap(err)
}

// Close wipes the master key. The underlying database stays open.
func (k *KeyRing) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.key != nil {
		common.WipeByteArray(k.key)
		k.key = nil
	}
}
