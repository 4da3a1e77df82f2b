package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/cryptox"
)

// PasswordHashLen is the length of the hex SHA-256 clients send in place of
// the password.
const PasswordHashLen = 64

// ValidatePasswordHash checks that hash looks like a hex SHA-256 digest.
func ValidatePasswordHash(hash string) error {
	if len(hash) != PasswordHashLen {
		return fmt.Errorf("%w: password must be a hex sha256 digest", common.ErrValidation)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return fmt.Errorf("%w: password must be a hex sha256 digest", common.ErrValidation)
	}
	return nil
}

// NewVerifier derives a salted verifier for a client password hash.
func NewVerifier(passwordHash string) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(cryptox.SaltSize)
	return salt, makeVerifier(passwordHash, salt)
}

// CheckVerifier reports whether passwordHash matches the stored verifier.
func CheckVerifier(passwordHash string, salt, verifier []byte) bool {
	return subtle.ConstantTimeCompare(makeVerifier(passwordHash, salt), verifier) == 1
}

func makeVerifier(passwordHash string, salt []byte) []byte {
	key := cryptox.DeriveMasterKey([]byte(strings.ToLower(passwordHash)), salt)
	defer common.WipeByteArray(key)
	return cryptox.MakeVerifier(key)
}
