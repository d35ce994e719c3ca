// Package middleware implements the HTTP pipeline: request id, security
// headers, CORS, access logging, panic recovery, authentication and
// authorization. Each middleware is a func(http.Handler) http.Handler so the
// router composes them directly.
package middleware

import (
	"context"
	"net/http"

	"github.com/ViniLF/library-api/internal/domain"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	userKey
)

// RequestIDFrom returns the request id attached by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// UserFrom returns the authenticated user, or nil when the request is
// anonymous.
func UserFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

func withUser(r *http.Request, u *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, u))
}
