package api

import (
	"net/http"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/middleware"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

// AuthHandler serves /auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
	rs   *resp.Responder
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, rs *resp.Responder) *AuthHandler {
	return &AuthHandler{auth: auth, rs: rs}
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

type refreshResponse struct {
	Tokens *service.TokenPair `json:"tokens"`
}

// Register handles POST /auth/register. The response carries the new account
// only; the client signs in through /auth/login for tokens.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	user, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.Created(w, &registerResponse{User: user}, "user registered")
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	result, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, result, "login successful")
}

// Refresh handles POST /auth/refresh-token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := decode(r, &req); err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.rs.Error(w, middleware.RequestIDFrom(r.Context()), err)
		return
	}
	h.rs.OK(w, &refreshResponse{Tokens: tokens}, "tokens refreshed")
}

// Me handles GET /auth/me. Runs behind Authenticate, so the user is always in
// context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	h.rs.OK(w, user, "")
}
