package httpapi

import (
	"context"
	"net/http"

	"evalboard/internal/session"
)

type sessionContextKey struct{}

// SessionFromContext returns the authenticated session placed there by the
// auth middleware; nil on unauthenticated routes.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionContextKey{}).(*session.Session)
	return s
}

// requireKind gates a handler on a valid session of the given kind.
// Admin and evaluator cookies are interchangeable at transport level, so the
// kind check is what keeps the two route groups apart.
func requireKind(sessions *session.Manager, kind string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.FromRequest(r.Context(), r)
		if err != nil || s.Kind != kind {
			writeJSON(w, http.StatusUnauthorized, SessionExpired())
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey{}, s)
		next(w, r.WithContext(ctx))
	}
}
