// Package auth holds the dev bridge credential primitives: bucket tokens,
// password verifiers and the nonce replay cache.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims are carried by a bucket token. ID (jti) makes every token
// unique so it can be consumed exactly once.
type TokenClaims struct {
	jwt.RegisteredClaims
	Bucket    string `json:"bucket"`
	Operation string `json:"operation"`
}

// GenerateToken mints a bucket token for userID valid for ttl.
func GenerateToken(userID, bucketID, operation string, secretKey []byte, ttl time.Duration) (string, *TokenClaims, error) {
	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Bucket:    bucketID,
		Operation: operation,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// ParseToken verifies the signature and expiry of a bucket token. Any
// failure is reported as common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(common.ErrInvalidToken, jwt.ErrTokenExpired)
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.ID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
