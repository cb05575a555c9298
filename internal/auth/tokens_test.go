package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "HS256", 30*time.Minute, 7*24*time.Hour)
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccess("user-123", "x@y.com", "student")
	require.NoError(t, err)

	claims := issuer.Verify(token, TokenTypeAccess)
	require.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, "x@y.com", claims["email"])
	assert.Equal(t, "student", claims["role"])
}

func TestTokenIssuer_TypeMismatchRejected(t *testing.T) {
	issuer := newTestIssuer()

	refresh, err := issuer.IssueRefresh("user-123")
	require.NoError(t, err)

	assert.Nil(t, issuer.Verify(refresh, TokenTypeAccess))
	assert.NotNil(t, issuer.Verify(refresh, TokenTypeRefresh))
}

func TestTokenIssuer_WrongSecretRejected(t *testing.T) {
	issuer := newTestIssuer()
	other := NewTokenIssuer("other-secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccess("user-123", "x@y.com", "student")
	require.NoError(t, err)

	assert.Nil(t, other.Verify(token, TokenTypeAccess))
}

func TestTokenIssuer_ExpiredRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "HS256", -time.Minute, -time.Minute)

	token, err := issuer.IssueAccess("user-123", "x@y.com", "student")
	require.NoError(t, err)

	assert.Nil(t, issuer.Verify(token, TokenTypeAccess))
}

func TestTokenIssuer_GarbageRejected(t *testing.T) {
	issuer := newTestIssuer()
	assert.Nil(t, issuer.Verify("not.a.jwt", TokenTypeAccess))
	assert.Nil(t, issuer.Verify("", TokenTypeAccess))
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	h1 := HashRefreshToken("some-token")
	h2 := HashRefreshToken("some-token")
	h3 := HashRefreshToken("other-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestGenerateVerificationCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateVerificationCode()
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9')
		}
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
