package client

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/keypair"
)

// AuthMode selects how a Session authenticates its requests.
type AuthMode string

const (
	AuthModeNone     AuthMode = "none"
	AuthModePassword AuthMode = "password"
	AuthModeKeyPair  AuthMode = "keyPair"
)

// Credentials carries the identity for one of the auth modes. Password mode
// uses Email and Password, keyPair mode uses KeyPair.
type Credentials struct {
	Email    string
	Password string
	KeyPair  *keypair.KeyPair
}

// authenticator decorates an outgoing request. payload is the exact byte
// string covered by a signature: the encoded query for GET and DELETE, the
// JSON body otherwise.
type authenticator interface {
	mode() AuthMode
	// needsNonce reports whether a replay nonce must be added to params.
	needsNonce() bool
	apply(req *http.Request, payload []byte) error
}

func newAuthenticator(mode AuthMode, creds Credentials) (authenticator, error) {
	switch mode {
	case AuthModeNone:
		return noAuth{}, nil
	case AuthModePassword:
		email := strings.TrimSpace(creds.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, authError("email is missing or malformed")
		}
		if creds.Password == "" {
			return nil, authError("password is empty")
		}
		return &passwordAuth{email: email, passwordHash: HashPassword(creds.Password)}, nil
	case AuthModeKeyPair:
		if creds.KeyPair == nil {
			return nil, authError("key pair is missing")
		}
		return &keyPairAuth{kp: creds.KeyPair}, nil
	default:
		return nil, authError("unknown auth mode " + string(mode))
	}
}

// HashPassword returns the hex SHA-256 of password. The bridge never sees
// the plain password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type noAuth struct{}

func (noAuth) mode() AuthMode { return AuthModeNone }

func (noAuth) needsNonce() bool { return false }

func (noAuth) apply(*http.Request, []byte) error { return nil }

type passwordAuth struct {
	email        string
	passwordHash string
}

func (a *passwordAuth) mode() AuthMode { return AuthModePassword }

func (a *passwordAuth) needsNonce() bool { return false }

func (a *passwordAuth) apply(req *http.Request, _ []byte) error {
	req.SetBasicAuth(a.email, a.passwordHash)
	return nil
}

type keyPairAuth struct {
	kp *keypair.KeyPair
}

func (a *keyPairAuth) mode() AuthMode { return AuthModeKeyPair }

func (a *keyPairAuth) needsNonce() bool { return true }

func (a *keyPairAuth) apply(req *http.Request, payload []byte) error {
	sig, err := a.kp.Sign(common.SignedMessage(req.Method, req.URL.Path, payload))
	if err != nil {
		return err
	}
	req.Header.Set(common.PubKeyHeaderName, a.kp.PublicKey())
	req.Header.Set(common.SignatureHeaderName, sig)
	return nil
}

func authError(reason string) error {
	return fmt.Errorf("%w: %s", ErrAuthentication, reason)
}
