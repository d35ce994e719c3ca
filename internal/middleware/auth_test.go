package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/resp"
	"github.com/ViniLF/library-api/internal/service"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return s.users[id], nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	return nil, 0, nil
}

type authFixture struct {
	auth  *Auth
	jwt   *service.JWTService
	users *stubUserRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	jwtSvc, err := service.NewJWTService("access", "refresh", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}
	users := &stubUserRepo{users: make(map[string]*domain.User)}
	authSvc := service.NewAuthService(users, jwtSvc)
	rs := resp.New("test", zap.NewNop())
	return &authFixture{auth: NewAuth(jwtSvc, authSvc, rs), jwt: jwtSvc, users: users}
}

func (f *authFixture) addUser(t *testing.T, id string, role domain.Role, active bool) string {
	t.Helper()
	f.users.users[id] = &domain.User{
		ID: id, Name: "u", Email: id + "@example.com", Role: role, IsActive: active,
	}
	pair, err := f.jwt.GenerateTokenPair(id, id+"@example.com", string(role))
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	return pair.AccessToken
}

func okHandler(t *testing.T, sawUser *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawUser != nil {
			*sawUser = UserFrom(r.Context()) != nil
		}
		w.WriteHeader(http.StatusOK)
	})
}

func errType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Type
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	f := newAuthFixture(t)
	handler := f.auth.Authenticate(okHandler(t, nil))

	for _, header := range []string{"", "Bearer", "Bearer  ", "Token abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
		if typ := errType(t, rec); typ != "AuthenticationError" {
			t.Fatalf("header %q: error type = %q", header, typ)
		}
	}
}

func TestAuthenticateAttachesUser(t *testing.T) {
	f := newAuthFixture(t)
	token := f.addUser(t, "user-1", domain.RoleUser, true)

	var sawUser bool
	handler := f.auth.Authenticate(okHandler(t, &sawUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !sawUser {
		t.Fatal("user not attached to context")
	}
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	token := f.addUser(t, "user-1", domain.RoleUser, false)

	handler := f.auth.Authenticate(okHandler(t, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	token := f.addUser(t, "user-1", domain.RoleUser, true)
	delete(f.users.users, "user-1")

	handler := f.auth.Authenticate(okHandler(t, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuthSwallowsFailures(t *testing.T) {
	f := newAuthFixture(t)

	var sawUser bool
	handler := f.auth.OptionalAuth(okHandler(t, &sawUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sawUser {
		t.Fatal("anonymous request should not carry a user")
	}
}

func TestAuthorizeRoles(t *testing.T) {
	f := newAuthFixture(t)
	userToken := f.addUser(t, "user-1", domain.RoleUser, true)
	adminToken := f.addUser(t, "admin-1", domain.RoleAdmin, true)

	handler := f.auth.Authenticate(
		f.auth.Authorize(domain.RoleAdmin, domain.RoleLibrarian)(okHandler(t, nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("USER status = %d, want 403", rec.Code)
	}
	if typ := errType(t, rec); typ != "AuthorizationError" {
		t.Fatalf("error type = %q, want AuthorizationError", typ)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ADMIN status = %d, want 200", rec.Code)
	}
}

func TestAuthorizeWithoutUserIs401(t *testing.T) {
	f := newAuthFixture(t)
	handler := f.auth.Authorize(domain.RoleAdmin)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireOwnership(t *testing.T) {
	f := newAuthFixture(t)
	userToken := f.addUser(t, "user-1", domain.RoleUser, true)
	adminToken := f.addUser(t, "admin-1", domain.RoleAdmin, true)

	r := chi.NewRouter()
	r.With(f.auth.Authenticate, f.auth.RequireOwnership("userId")).
		Get("/users/{userId}/loans", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	get := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := get("/users/user-1/loans", userToken); code != http.StatusOK {
		t.Fatalf("own resource status = %d, want 200", code)
	}
	if code := get("/users/user-2/loans", userToken); code != http.StatusForbidden {
		t.Fatalf("foreign resource status = %d, want 403", code)
	}
	if code := get("/users/user-1/loans", adminToken); code != http.StatusOK {
		t.Fatalf("admin bypass status = %d, want 200", code)
	}
}
