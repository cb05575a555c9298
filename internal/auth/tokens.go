package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminators carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenIssuer creates and validates signed, expiring JWTs.
type TokenIssuer struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret, algorithm string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess creates an access token carrying the subject plus email and
// role claims.
func (i *TokenIssuer) IssueAccess(subject, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  role,
		"type":  TokenTypeAccess,
		"exp":   time.Now().Add(i.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// IssueRefresh creates a refresh token carrying only the subject.
func (i *TokenIssuer) IssueRefresh(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"type": TokenTypeRefresh,
		"exp":  time.Now().Add(i.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// RefreshTTL exposes the refresh lifetime for persisting the server-side
// token record.
func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Verify validates signature, expiry and the type discriminator. It returns
// nil on any failure rather than an error; callers treat nil as invalid.
func (i *TokenIssuer) Verify(tokenString, expectedType string) jwt.MapClaims {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != i.method.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	if claims["type"] != expectedType {
		return nil
	}
	return claims
}

// HashRefreshToken derives the storable hash of a refresh token. The raw
// token is never persisted.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
