package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// Auth builds the authentication and authorization middlewares. Every
// authenticated request re-fetches the user so deactivation and role changes
// take effect without waiting for token expiry.
type Auth struct {
	jwt  *service.JWTService
	auth *service.AuthService
	rs   *resp.Responder
}

// NewAuth creates the middleware set.
func NewAuth(jwtSvc *service.JWTService, authSvc *service.AuthService, rs *resp.Responder) *Auth {
	return &Auth{jwt: jwtSvc, auth: authSvc, rs: rs}
}

// bearerToken extracts the token from an Authorization header. The header
// must be exactly "Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (a *Auth) authenticate(r *http.Request) (*domain.User, error) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, apperr.Authentication("missing or malformed authorization header")
	}

	claims, err := a.jwt.ValidateAccessToken(token)
	if err != nil {
		if err == service.ErrTokenExpired {
			return nil, apperr.Authentication("token expired")
		}
		return nil, apperr.Authentication("invalid token")
	}

	// GetUserByID owns the active-status rule; its authentication failures
	// (e.g. a deactivated account) pass through untouched.
	user, err := a.auth.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Type == apperr.TypeAuthentication {
			return nil, ae
		}
		return nil, apperr.Authentication("invalid token")
	}
	return user, nil
}

// Authenticate requires a valid access token and attaches the user to the
// request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			a.rs.Error(w, RequestIDFrom(r.Context()), err)
			return
		}
		next.ServeHTTP(w, withUser(r, user))
	})
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through anonymously otherwise.
func (a *Auth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.authenticate(r); err == nil {
			r = withUser(r, user)
		}
		next.ServeHTTP(w, r)
	})
}

// Authorize allows only the given roles. It must run after Authenticate; a
// request without a user in context gets a 401.
func (a *Auth) Authorize(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFrom(r.Context())
			if user == nil {
				a.rs.Error(w, RequestIDFrom(r.Context()), apperr.Authentication("authentication required"))
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				a.rs.Error(w, RequestIDFrom(r.Context()), apperr.Authorization("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwnership allows the request only when the URL parameter matches the
// authenticated user's id. ADMIN bypasses the check.
func (a *Auth) RequireOwnership(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFrom(r.Context())
			if user == nil {
				a.rs.Error(w, RequestIDFrom(r.Context()), apperr.Authentication("authentication required"))
				return
			}
			if !user.IsAdmin() && chi.URLParam(r, param) != user.ID {
				a.rs.Error(w, RequestIDFrom(r.Context()), apperr.Authorization("you can only access your own resources"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
