// Package resp writes the uniform response envelope and hosts the single
// error normalizer: every failure, whatever its source, leaves the process as
// {success:false, error:{type, message, details?}} with a status derived here
// and nowhere else.
package resp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ViniLF/library-api/internal/apperr"
	"github.com/ViniLF/library-api/internal/validate"
)

// Postgres error codes the normalizer understands.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Success bool       `json:"success"`
	Error   *wireError `json:"error"`
}

type wireError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Responder renders envelopes. In development mode the original message of an
// unclassified failure passes through instead of the redacted fallback.
type Responder struct {
	dev    bool
	logger *zap.Logger
}

// New creates a responder. env follows APP_ENV ("development" enables message
// passthrough on 500s).
func New(env string, logger *zap.Logger) *Responder {
	return &Responder{dev: env == "development", logger: logger}
}

// JSON writes a success envelope with the given status.
func (rs *Responder) JSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&successEnvelope{Success: true, Message: message, Data: data}); err != nil {
		rs.logger.Error("failed to encode response", zap.Error(err))
	}
}

// OK writes a 200 success envelope.
func (rs *Responder) OK(w http.ResponseWriter, data any, message string) {
	rs.JSON(w, http.StatusOK, data, message)
}

// Created writes a 201 success envelope.
func (rs *Responder) Created(w http.ResponseWriter, data any, message string) {
	rs.JSON(w, http.StatusCreated, data, message)
}

// Error normalizes err and writes exactly one error envelope. reqID is only
// used for logging correlation.
func (rs *Responder) Error(w http.ResponseWriter, reqID string, err error) {
	status, wire := rs.normalize(err)

	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed",
			zap.String("request_id", reqID),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(&errorEnvelope{Success: false, Error: wire}); encErr != nil {
		rs.logger.Error("failed to encode error response", zap.String("request_id", reqID), zap.Error(encErr))
	}
}

// normalize maps a failure to its wire representation. The order matters:
// explicitly typed application errors win, then known library failures, then
// the redacted 500 fallback.
func (rs *Responder) normalize(err error) (int, *wireError) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Status, &wireError{Type: ae.Type, Message: ae.Message, Details: ae.Details}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, &wireError{
			Type:    apperr.TypeValidation,
			Message: "invalid data provided",
			Details: validate.Messages(verrs),
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return http.StatusBadRequest, &wireError{
			Type:    apperr.TypeSyntax,
			Message: "invalid JSON in request body",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, &wireError{Type: apperr.TypeNotFound, Message: "record not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusConflict, &wireError{
				Type:    apperr.TypeConflict,
				Message: "a record with this value already exists",
				Details: map[string]string{"constraint": pgErr.ConstraintName},
			}
		case pgForeignKeyViolation:
			return http.StatusBadRequest, &wireError{
				Type:    apperr.TypeConstraint,
				Message: "operation would violate a database constraint",
			}
		}
	}

	message := "internal server error"
	if rs.dev {
		message = err.Error()
	}
	return http.StatusInternalServerError, &wireError{Type: apperr.TypeInternal, Message: message}
}
