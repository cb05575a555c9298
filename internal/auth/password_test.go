package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestHashPassword_LongPasswordBeyondBcryptLimit(t *testing.T) {
	// bcrypt truncates at 72 bytes; the pre-hash must keep the tail relevant.
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(long, hash))
	// Same 72-byte prefix, different tail: must NOT verify.
	assert.False(t, VerifyPassword(strings.Repeat("a", 99)+"b", hash))
}

func TestVerifyPassword_MalformedHashReturnsFalse(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
}
