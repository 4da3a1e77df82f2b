// Package credential persists the client's private key.
//
// The key file holds either a hex encoded key (format version 1) or, when a
// passphrase is configured, "bk2:" followed by the base64 of a
// passphrase-sealed key (format version 2). Load detects the format.
package credential

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/cryptox"
	"github.com/dmitrijs2005/bridgekeeper/internal/filex"
	"github.com/zeebo/errs"
)

const sealedPrefix = "bk2:"

// Error is the error class for this package.
var Error = errs.Class("credential")

var (
	// ErrCorrupt reports a key file that cannot be parsed.
	ErrCorrupt = errors.New("key file is corrupt")
	// ErrPassphrase reports a sealed key file that could not be opened with
	// the configured passphrase, or no passphrase at all.
	ErrPassphrase = errors.New("wrong or missing key passphrase")
)

// Store loads and saves the credential.
type Store interface {
	// Load returns (nil, nil) when no credential has been saved yet.
	Load(ctx context.Context) (*models.Credential, error)
	// Save replaces any existing credential.
	Save(ctx context.Context, cred *models.Credential) error
}

// FileStore keeps the credential in a single file. Load and Save are
// serialized; Save replaces the file atomically.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase []byte
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store at path. An empty passphrase writes the
// plain hex format.
func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{path: path, passphrase: []byte(passphrase)}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*models.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, Error.Wrap(fmt.Errorf("%w: read %s: %w", client.ErrIO, s.path, err))
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, Error.Wrap(ErrCorrupt)
	}

	if strings.HasPrefix(text, sealedPrefix) {
		return s.open(strings.TrimPrefix(text, sealedPrefix))
	}

	key, err := hex.DecodeString(text)
	if err != nil {
		return nil, Error.Wrap(fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	return &models.Credential{Key: key, Version: models.CredentialVersionPlain}, nil
}

func (s *FileStore) open(encoded string) (*models.Credential, error) {
	if len(s.passphrase) == 0 {
		return nil, Error.Wrap(ErrPassphrase)
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, Error.Wrap(fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	key, err := cryptox.Open(s.passphrase, sealed)
	if err != nil {
		return nil, Error.Wrap(fmt.Errorf("%w: %w", ErrPassphrase, err))
	}
	return &models.Credential{Key: key, Version: models.CredentialVersionSealed}, nil
}

func (s *FileStore) Save(ctx context.Context, cred *models.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cred == nil || len(cred.Key) == 0 {
		return Error.Wrap(fmt.Errorf("%w: credential key is empty", client.ErrValidation))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var text string
	if len(s.passphrase) > 0 {
		sealed, err := cryptox.Seal(s.passphrase, cred.Key)
		if err != nil {
			return Error.Wrap(err)
		}
		text = sealedPrefix + base64.StdEncoding.EncodeToString(sealed)
		cred.Version = models.CredentialVersionSealed
	} else {
		text = hex.EncodeToString(cred.Key)
		cred.Version = models.CredentialVersionPlain
	}

	if err := filex.WriteFileAtomic(s.path, []byte(text+"\n"), 0o600); err != nil {
		return Error.Wrap(fmt.Errorf("%w: write %s: %w", client.ErrIO, s.path, err))
	}
	return nil
}
