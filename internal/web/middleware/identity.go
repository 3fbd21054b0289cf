package middleware

import (
	"context"
	"net/http"
)

// The upstream authentication gateway (out of scope here) authenticates the
// operator and forwards the identity in the X-User header. This middleware
// lifts it into the request context for provenance stamping.

type contextKey string

const userKey contextKey = "user"

// Identity extracts the X-User header into the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.Header.Get("X-User"); user != "" {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the operator identity attached by Identity, or ""
// when the request carried none.
func UserFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(userKey).(string); ok {
		return user
	}
	return ""
}
