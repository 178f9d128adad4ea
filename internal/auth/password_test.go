package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPassword("s3cret-password", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	// A stored value that is not a bcrypt hash must verify as false, not panic.
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("anything", ""))
}

func TestHashPassword_Unique(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	// bcrypt salts per call
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("same-password", h1))
	assert.True(t, CheckPassword("same-password", h2))
}
