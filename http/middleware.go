package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sagarc03/todos"
)

// Verifier authenticates an Authorization header value.
type Verifier interface {
	Verify(ctx context.Context, authHeader string) (todos.Identity, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, id todos.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller stored by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (todos.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(todos.Identity)
	return id, ok
}

// AuthMiddleware creates middleware that requires a valid bearer token.
// A nil verifier rejects every request.
func AuthMiddleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				slog.ErrorContext(r.Context(), "no token verifier configured")
				HandleError(w, r, todos.ErrUnauthorized)
				return
			}

			id, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				slog.WarnContext(r.Context(), "authentication failed",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
				)
				HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
