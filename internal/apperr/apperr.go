// Package apperr defines the typed application error carried from the service
// layer to the error normalizer. Every failure a handler can surface is either
// one of these or gets mapped to one by the normalizer.
package apperr

import "net/http"

// Error type names as they appear in the wire envelope.
const (
	TypeValidation     = "ValidationError"
	TypeAuthentication = "AuthenticationError"
	TypeAuthorization  = "AuthorizationError"
	TypeNotFound       = "NotFoundError"
	TypeConflict       = "ConflictError"
	TypeConstraint     = "ConstraintError"
	TypeRateLimit      = "RateLimitError"
	TypeSyntax         = "SyntaxError"
	TypeInternal       = "InternalServerError"
)

// Error is an application failure with an explicit HTTP status and wire type.
type Error struct {
	Status  int
	Type    string
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches structured detail (field errors, retry hints) to a copy
// of the error.
func (e *Error) WithDetails(details any) *Error {
	out := *e
	out.Details = details
	return &out
}

// New builds an error with an arbitrary status and type.
func New(status int, errType, message string) *Error {
	return &Error{Status: status, Type: errType, Message: message}
}

// Validation is a 400 ValidationError.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, TypeValidation, message)
}

// Authentication is a 401 AuthenticationError.
func Authentication(message string) *Error {
	return New(http.StatusUnauthorized, TypeAuthentication, message)
}

// Authorization is a 403 AuthorizationError.
func Authorization(message string) *Error {
	return New(http.StatusForbidden, TypeAuthorization, message)
}

// NotFound is a 404 NotFoundError.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, TypeNotFound, message)
}

// Conflict is a 409 ConflictError.
func Conflict(message string) *Error {
	return New(http.StatusConflict, TypeConflict, message)
}

// Constraint is a 400 ConstraintError (foreign-key violations).
func Constraint(message string) *Error {
	return New(http.StatusBadRequest, TypeConstraint, message)
}

// RateLimit is a 429 RateLimitError.
func RateLimit(message string) *Error {
	return New(http.StatusTooManyRequests, TypeRateLimit, message)
}

// Internal is a 500 InternalServerError.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, TypeInternal, message)
}
