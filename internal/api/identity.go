package api

import (
	"context"
	"net/http"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	apperrors "github.com/sakenavi/sakenavi-server/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// clientAddrKey is the context key for the requesting client address.
const clientAddrKey ctxKey = "clientAddr"

// clientAddrMiddleware stores the client address in the request context
// so huma handlers can reach it. Runs after RealIP, so RemoteAddr is
// already the originating address when the proxy sets the usual headers.
func clientAddrMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientAddrKey, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientAddr returns the requesting client address from context.
// Returns empty string outside an HTTP request.
func clientAddr(ctx context.Context) string {
	if addr, ok := ctx.Value(clientAddrKey).(string); ok {
		return addr
	}
	return ""
}

// requireUser resolves the X-User-Id header to a registered user.
// A missing header is a 401; an unknown ID is a 404. There is no
// stronger check than possession of the ID.
func (s *Server) requireUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("ユーザーIDが必要です")
	}
	return s.services.User.Get(ctx, userID)
}
