package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordHash(t *testing.T) {
	assert.NoError(t, ValidatePasswordHash(strings.Repeat("ab", 32)))
	assert.ErrorIs(t, ValidatePasswordHash("short"), common.ErrValidation)
	assert.ErrorIs(t, ValidatePasswordHash(strings.Repeat("zz", 32)), common.ErrValidation)
}

func TestVerifier(t *testing.T) {
	hash := strings.Repeat("0f", 32)
	salt, verifier := NewVerifier(hash)

	assert.Len(t, salt, 16)
	assert.True(t, CheckVerifier(hash, salt, verifier))
	assert.True(t, CheckVerifier(strings.ToUpper(hash), salt, verifier))
	assert.False(t, CheckVerifier(strings.Repeat("1f", 32), salt, verifier))

	salt2, verifier2 := NewVerifier(hash)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, verifier, verifier2)
}
