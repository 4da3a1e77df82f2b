// Package keypair implements the secp256k1 key pairs used to authenticate
// bridge requests: generation, hex encoding, request signing and signature
// verification.
package keypair

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

const privateKeySize = 32

var (
	ErrInvalidPrivateKey = errors.New("keypair: invalid private key")
	ErrInvalidPublicKey  = errors.New("keypair: invalid public key")
	ErrInvalidSignature  = errors.New("keypair: invalid signature")
)

// KeyPair holds a private key and its public counterpart. The private key
// never leaves the process except through the credential store.
type KeyPair struct {
	priv *ec.PrivateKey
}

// Generate creates a new random key pair. It performs no I/O.
func Generate() (*KeyPair, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// FromPrivateKey rebuilds a key pair from raw 32-byte private key material.
func FromPrivateKey(raw []byte) (*KeyPair, error) {
	if len(raw) != privateKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidPrivateKey, privateKeySize, len(raw))
	}
	allZero := true
	for _, b := range raw {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, ErrInvalidPrivateKey
	}

	priv, _ := ec.PrivateKeyFromBytes(raw)
	return &KeyPair{priv: priv}, nil
}

// FromHex decodes a hex private key.
func FromHex(s string) (*KeyPair, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return FromPrivateKey(raw)
}

// PrivateKey returns a copy of the raw private key bytes.
func (kp *KeyPair) PrivateKey() []byte {
	return kp.priv.Serialize()
}

// PrivateKeyHex returns the hex encoded private key.
func (kp *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(kp.priv.Serialize())
}

// PublicKey returns the compressed public key, hex encoded. This is the form
// registered with the bridge.
func (kp *KeyPair) PublicKey() string {
	return hex.EncodeToString(kp.priv.PubKey().Compressed())
}

// Sign hashes message with SHA-256 and returns the hex DER encoded ECDSA
// signature.
func (kp *KeyPair) Sign(message []byte) (string, error) {
	hash := sha256.Sum256(message)
	sig, err := kp.priv.Sign(hash[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return hex.EncodeToString(sig.Serialize()), nil
}

// ParsePublicKey validates a hex encoded public key.
func ParsePublicKey(pubHex string) (*ec.PublicKey, error) {
	raw, err := hex.DecodeString(pubHex)
	if err != nil || len(raw) == 0 {
		return nil, ErrInvalidPublicKey
	}
	pub, err := ec.PublicKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// Verify checks that sigHex is a valid signature of message by pubHex.
func Verify(pubHex string, message []byte, sigHex string) error {
	pub, err := ParsePublicKey(pubHex)
	if err != nil {
		return err
	}

	rawSig, err := hex.DecodeString(sigHex)
	if err != nil {
		return ErrInvalidSignature
	}
	sig, err := ec.ParseDERSignature(rawSig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	hash := sha256.Sum256(message)
	if !sig.Verify(hash[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}
