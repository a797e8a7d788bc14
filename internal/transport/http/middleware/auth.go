package middleware

import (
	"context"
	"net/http"
	"strings"

	"vidtube/internal/httputil"
	"vidtube/internal/logging"
	"vidtube/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const userKey contextKey = "user"

// Authenticator resolves an access token to the user it names.
// service.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth rejects requests without a valid access token. The token is read from
// the accessToken cookie first, then from an Authorization: Bearer header.
// The resolved user is stored on the context for handlers.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				httputil.WriteAppError(w, r, model.ErrTokenMissing)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				httputil.WriteAppError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth resolves the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logging.Component(r.Context(), "auth").WithError(err).Debug("ignoring invalid token on public route")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(httputil.AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

// WithUser attaches user to ctx. Exposed for handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return withUser(ctx, user)
}
