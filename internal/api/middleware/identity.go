package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// UserIDHeader carries the caller's id, set by the authenticating gateway.
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

// IdentityMiddleware puts the gateway-provided user id into the context
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		logger := zerolog.Ctx(r.Context()).With().Str("user_id", userID).Logger()
		ctx := context.WithValue(logger.WithContext(r.Context()), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the caller's id, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}
