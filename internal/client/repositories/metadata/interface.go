// Package metadata stores small key/value settings of the local key ring,
// such as the passphrase salt and verifier.
package metadata

import "context"

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
