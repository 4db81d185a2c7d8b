package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("testpassword")
	require.NoError(t, err)
	second, err := h.Hash("testpassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "digests are salted")
	assert.True(t, h.Verify("testpassword", first))
	assert.True(t, h.Verify("testpassword", second))
	assert.False(t, h.Verify("wrongpassword", first))
}

func TestBcryptHasher_VerifyMalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-hash", "$2a$10$short"} {
		assert.False(t, h.Verify("testpassword", digest), "digest %q", digest)
	}
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h := NewBcryptHasher(0)
	digest, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}
