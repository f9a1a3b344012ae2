package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func legacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func TestVerifierChain(t *testing.T) {
	chain := NewVerifierChain()

	t.Run("bcrypt match", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		require.NoError(t, err)

		ok, upgraded := chain.Verify("s3cret", hash)
		assert.True(t, ok)
		assert.Empty(t, upgraded, "a current hash needs no migration")
	})

	t.Run("bcrypt mismatch", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		require.NoError(t, err)

		ok, _ := chain.Verify("wrong", hash)
		assert.False(t, ok)
	})

	t.Run("legacy sha256 match upgrades", func(t *testing.T) {
		ok, upgraded := chain.Verify("s3cret", legacyHash("s3cret"))
		assert.True(t, ok)
		require.NotEmpty(t, upgraded)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(upgraded), []byte("s3cret")))
	})

	t.Run("legacy sha256 mismatch", func(t *testing.T) {
		ok, _ := chain.Verify("wrong", legacyHash("s3cret"))
		assert.False(t, ok)
	})

	t.Run("plaintext match upgrades", func(t *testing.T) {
		ok, upgraded := chain.Verify("s3cret", "s3cret")
		assert.True(t, ok)
		require.NotEmpty(t, upgraded)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(upgraded), []byte("s3cret")))
	})

	t.Run("plaintext mismatch", func(t *testing.T) {
		ok, _ := chain.Verify("wrong", "s3cret")
		assert.False(t, ok)
	})

	t.Run("empty stored credential never matches", func(t *testing.T) {
		ok, _ := chain.Verify("", "")
		assert.False(t, ok)
	})
}
