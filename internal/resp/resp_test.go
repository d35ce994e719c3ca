package resp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/validate"
)

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func writeErr(t *testing.T, rs *Responder, err error) (int, errorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	rs.Error(rec, "req-1", err)

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestErrorNormalization(t *testing.T) {
	rs := New("test", zap.NewNop())

	badJSON := json.Unmarshal([]byte("{"), &struct{}{})

	type loginShape struct {
		Email string `validate:"required,email"`
	}
	validationErr := validate.Struct(&loginShape{Email: "not-an-email"})

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"typed app error", apperr.NotFound("book not found"), http.StatusNotFound, apperr.TypeNotFound},
		{"validation", validationErr, http.StatusBadRequest, apperr.TypeValidation},
		{"malformed json", badJSON, http.StatusBadRequest, apperr.TypeSyntax},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, apperr.TypeNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, http.StatusConflict, apperr.TypeConflict},
		{"fk violation", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest, apperr.TypeConstraint},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apperr.TypeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := writeErr(t, rs, tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", status, tc.wantStatus)
			}
			if body.Success {
				t.Fatal("success = true in error envelope")
			}
			if body.Error.Type != tc.wantType {
				t.Fatalf("type = %q, want %q", body.Error.Type, tc.wantType)
			}
		})
	}
}

func TestInternalErrorRedactedOutsideDevelopment(t *testing.T) {
	prod := New("production", zap.NewNop())
	_, body := writeErr(t, prod, errors.New("db password is hunter2"))
	if strings.Contains(body.Error.Message, "hunter2") {
		t.Fatalf("production message leaked internals: %q", body.Error.Message)
	}

	dev := New("development", zap.NewNop())
	_, body = writeErr(t, dev, errors.New("db password is hunter2"))
	if !strings.Contains(body.Error.Message, "hunter2") {
		t.Fatalf("development message should pass through, got %q", body.Error.Message)
	}
}

func TestValidationDetails(t *testing.T) {
	rs := New("test", zap.NewNop())

	type shape struct {
		Email string `validate:"required,email"`
	}
	_, body := writeErr(t, rs, validate.Struct(&shape{}))

	details, ok := body.Error.Details.([]any)
	if !ok || len(details) == 0 {
		t.Fatalf("details = %#v, want non-empty list", body.Error.Details)
	}
	if msg, _ := details[0].(string); !strings.Contains(msg, "email") {
		t.Fatalf("detail %q should name the field", msg)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rs := New("test", zap.NewNop())
	rec := httptest.NewRecorder()
	rs.Created(rec, map[string]string{"id": "1"}, "created")

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Message != "created" || body.Data["id"] != "1" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestAppErrorDetailsPassThrough(t *testing.T) {
	rs := New("test", zap.NewNop())
	err := apperr.RateLimit("too many requests").WithDetails(map[string]int{"retryAfter": 30})

	status, body := writeErr(t, rs, err)
	if status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", status)
	}
	details, ok := body.Error.Details.(map[string]any)
	if !ok || details["retryAfter"] != float64(30) {
		t.Fatalf("details = %#v, want retryAfter 30", body.Error.Details)
	}
}
