package keypair

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ProducesDistinctCompressedKeys(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicKey(), b.PublicKey())
	assert.Len(t, a.PublicKey(), 66, "compressed secp256k1 key is 33 bytes")
	assert.True(t, strings.HasPrefix(a.PublicKey(), "02") || strings.HasPrefix(a.PublicKey(), "03"))
	assert.Len(t, a.PrivateKey(), 32)
}

func TestFromHex_RoundTrip(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	restored, err := FromHex(kp.PrivateKeyHex())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey(), restored.PublicKey())
}

func TestFromPrivateKey_Invalid(t *testing.T) {
	_, err := FromPrivateKey([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = FromPrivateKey(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = FromHex("zz")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestSignVerify(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	other, err := Generate()
	require.NoError(t, err)

	msg := []byte("GET\n/buckets\n__nonce=1")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	require.NoError(t, Verify(kp.PublicKey(), msg, sig))
	assert.ErrorIs(t, Verify(kp.PublicKey(), []byte("GET\n/keys\n__nonce=1"), sig), ErrInvalidSignature)
	assert.ErrorIs(t, Verify(other.PublicKey(), msg, sig), ErrInvalidSignature)
	assert.ErrorIs(t, Verify(kp.PublicKey(), msg, "nothex"), ErrInvalidSignature)
	assert.ErrorIs(t, Verify("00", msg, sig), ErrInvalidPublicKey)
}

func TestParsePublicKey(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	_, err = ParsePublicKey(kp.PublicKey())
	assert.NoError(t, err)

	_, err = ParsePublicKey("")
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
	_, err = ParsePublicKey("abcd")
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}
