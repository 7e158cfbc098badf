package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code returned to clients.
type Code string

const (
	// Auth errors
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeInvalidToken    Code = "INVALID_TOKEN"
	CodeKakaoAuthFailed Code = "KAKAO_AUTH_FAILED"

	// Data errors
	CodeValidationError Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeDuplicateError  Code = "DUPLICATE_ERROR"

	// Business logic errors
	CodeEventConflict    Code = "EVENT_CONFLICT"
	CodeInvalidDateRange Code = "INVALID_DATE_RANGE"

	// AI / model errors
	CodeAIServiceError     Code = "AI_SERVICE_ERROR"
	CodeMalformedResponse  Code = "MALFORMED_RESPONSE"
	CodeIncompleteResult   Code = "INCOMPLETE_RESULT"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// Error is a typed application error carrying a machine-readable code, an
// HTTP status and optional details safe to expose to clients.
type Error struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Status  int         `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an application error with an explicit HTTP status.
func New(code Code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// WithDetails attaches client-safe detail data.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Validation creates a 400 VALIDATION_ERROR.
func Validation(message string) *Error {
	return New(CodeValidationError, message, http.StatusBadRequest)
}

// Unauthorized creates a 401 UNAUTHORIZED.
func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// NotFound creates a 404 NOT_FOUND.
func NotFound(message string) *Error {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// RateLimited creates a 429 RATE_LIMIT_EXCEEDED.
func RateLimited(message string) *Error {
	return New(CodeRateLimitExceeded, message, http.StatusTooManyRequests)
}

// Internal creates a 500 INTERNAL_ERROR with a generic message. The original
// cause must be logged server-side only, never sent to the client.
func Internal(message string) *Error {
	return New(CodeInternalError, message, http.StatusInternalServerError)
}

// Database creates a 500 DATABASE_ERROR.
func Database(message string) *Error {
	return New(CodeDatabaseError, message, http.StatusInternalServerError)
}

// From extracts an *Error from err, or wraps it as a generic internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error")
}
