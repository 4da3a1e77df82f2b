// Package cryptox holds the cryptographic helpers used by the client:
// passphrase key derivation, AEAD sealing of small records, and the
// streaming cipher applied to uploaded files.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// SaltSize is the length of argon2 salts produced by this package.
	SaltSize = 16
	// KeySize is the length of every symmetric key produced by this package.
	KeySize = 32
)

// ErrDecrypt is returned when sealed data cannot be authenticated, which
// usually means a wrong passphrase or tampered data.
var ErrDecrypt = errors.New("cryptox: decryption failed")

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// EncryptEntry serializes entry to JSON and encrypts it with AES-GCM under
// key (16, 24 or 32 bytes). A fresh 12-byte nonce is generated per call and
// returned next to the ciphertext.
func EncryptEntry(entry any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// DecryptEntry reverses EncryptEntry and unmarshals the JSON into v.
func DecryptEntry(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecrypt
	}

	return json.Unmarshal(plaintext, v)
}

// Seal encrypts plaintext under a key derived from passphrase with argon2id
// and returns salt || nonce || XChaCha20-Poly1305 ciphertext.
func Seal(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(DeriveMasterKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, salt), nil
}

// Open reverses Seal.
func Open(passphrase, sealed []byte) ([]byte, error) {
	if len(sealed) < SaltSize+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: sealed data too short", ErrDecrypt)
	}

	salt := sealed[:SaltSize]
	nonce := sealed[SaltSize : SaltSize+chacha20poly1305.NonceSizeX]
	ct := sealed[SaltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(DeriveMasterKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ct, salt)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// DataCipher is the per-file secret used to encrypt an uploaded file:
// a 256-bit key and a 192-bit XChaCha20 IV.
type DataCipher struct {
	Key []byte
	IV  []byte
}

// NewDataCipher generates a fresh random per-file secret.
func NewDataCipher() (*DataCipher, error) {
	dc := &DataCipher{
		Key: make([]byte, chacha20.KeySize),
		IV:  make([]byte, chacha20.NonceSizeX),
	}
	if _, err := rand.Read(dc.Key); err != nil {
		return nil, err
	}
	if _, err := rand.Read(dc.IV); err != nil {
		return nil, err
	}
	return dc, nil
}

func (dc *DataCipher) stream() (*chacha20.Cipher, error) {
	if len(dc.Key) != chacha20.KeySize || len(dc.IV) != chacha20.NonceSizeX {
		return nil, errors.New("cryptox: invalid data cipher key or iv length")
	}
	return chacha20.NewUnauthenticatedCipher(dc.Key, dc.IV)
}

// EncryptStream copies src to dst, encrypting on the fly, and returns the
// number of bytes written.
func (dc *DataCipher) EncryptStream(dst io.Writer, src io.Reader) (int64, error) {
	s, err := dc.stream()
	if err != nil {
		return 0, err
	}
	return io.Copy(cipher.StreamWriter{S: s, W: dst}, src)
}

// DecryptStream copies src to dst, decrypting on the fly. The stream cipher
// is symmetric so this mirrors EncryptStream.
func (dc *DataCipher) DecryptStream(dst io.Writer, src io.Reader) (int64, error) {
	s, err := dc.stream()
	if err != nil {
		return 0, err
	}
	return io.Copy(dst, cipher.StreamReader{S: s, R: src})
}

// DecryptWriter returns a writer that decrypts everything written to it
// into dst.
func (dc *DataCipher) DecryptWriter(dst io.Writer) (io.Writer, error) {
	s, err := dc.stream()
	if err != nil {
		return nil, err
	}
	return cipher.StreamWriter{S: s, W: dst}, nil
}
