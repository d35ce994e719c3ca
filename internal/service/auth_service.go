package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// bcryptCost is deliberately above the library default.
const bcryptCost = 12

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users repo.UserRepo
	jwt   *JWTService
}

// NewAuthService creates an AuthService.
func NewAuthService(users repo.UserRepo, jwtSvc *JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwtSvc}
}

// AuthResult bundles the user with the token pair minted at login.
type AuthResult struct {
	User   *domain.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// Register creates an account and returns it. No tokens are minted; the new
// account signs in through Login. Duplicate emails are a Conflict regardless
// of which check catches them first.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. The same generic message covers both an unknown
// email and a wrong password so the endpoint leaks nothing about which failed.
// A disabled account is rejected before the hash compare; its holder already
// knows the account exists, so the distinct message leaks nothing new.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Authentication("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.Authentication("account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Authentication("invalid credentials")
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates the full token pair off a valid refresh token. The user is
// re-fetched so deactivation takes effect immediately; a missing or disabled
// account collapses into the same generic failure as a bad token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperr.Authentication("refresh token expired")
		}
		return nil, apperr.Authentication("invalid refresh token")
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Authentication("invalid refresh token")
	}

	return s.jwt.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// GetUserByID loads the current account for /auth/me and the authentication
// middleware. A deactivated account fails authentication here, so every
// caller inherits the active-status check.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	if !user.IsActive {
		return nil, apperr.Authentication("account disabled")
	}
	return user, nil
}
