// Package common defines shared constants, sentinel errors and small helpers
// used across the client and the dev bridge server. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal      = errors.New("internal error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation error")
	ErrQuotaExceeded = errors.New("quota exceeded")

	// Auth errors (invalid, expired or already used token).
	ErrInvalidToken = errors.New("invalid token")
	ErrReplayed     = errors.New("nonce already used")
)
