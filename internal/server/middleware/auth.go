package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/globalchat/globalchat/internal/session"
)

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	Resolve(token string) (*session.Session, error)
}

type contextKey string

// sessionContextKey holds the authenticated *session.Session.
const sessionContextKey contextKey = "session"

// SessionFromContext returns the session injected by Auth.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}

// Auth validates the Bearer token and injects the resolved session into
// the request context.
func Auth(logger *slog.Logger, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			sess, err := resolver.Resolve(parts[1])
			if err != nil {
				logger.Warn("Invalid session token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)

			logger.Debug("User authenticated",
				"session_id", sess.ID, "username", sess.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin refuses requests whose session is not an administrator
// session. Must run after Auth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			if !sess.IsAdmin {
				logger.Warn("Admin endpoint refused",
					"username", sess.Username, "path", r.URL.Path)
				http.Error(w, "Forbidden: administrator only", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
