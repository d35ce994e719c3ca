package service

import (
	"errors"
	"testing"
	"time"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	return svc
}

func TestNewJWTServiceRequiresSecrets(t *testing.T) {
	if _, err := NewJWTService("", "refresh", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty access secret")
	}
	if _, err := NewJWTService("access", "", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty refresh secret")
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GenerateTokenPair("user-1", "u@example.com", "USER")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if pair.ExpiresIn != 3600 {
		t.Fatalf("ExpiresIn = %d, want 3600", pair.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "u@example.com" || claims.Role != "USER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if refreshClaims.UserID != "user-1" {
		t.Fatalf("refresh UserID = %q, want user-1", refreshClaims.UserID)
	}
	// The refresh token carries no profile claims.
	if refreshClaims.Email != "" || refreshClaims.Role != "" {
		t.Fatalf("refresh token leaked profile claims: %+v", refreshClaims)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GenerateTokenPair("user-1", "u@example.com", "USER")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token, err = %v", err)
	}
	if _, err := svc.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token, err = %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GenerateTokenPair("user-1", "u@example.com", "USER")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	svc := newTestJWTService(t)

	other, err := NewJWTService("other-access", "other-refresh", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	pair, err := other.GenerateTokenPair("user-1", "u@example.com", "USER")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token accepted, err = %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.ValidateAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: err = %v, want ErrInvalidToken", tok, err)
		}
	}
}
