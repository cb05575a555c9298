package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"assessment-system/internal/api"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id set by JWTMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// JWTMiddleware validates the bearer access token and stores the subject id
// in the request context. All failures produce the same generic message.
func JWTMiddleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			claims := issuer.Verify(parts[1], TokenTypeAccess)
			if claims == nil {
				api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			sub, _ := claims["sub"].(string)
			userID, err := uuid.Parse(sub)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
