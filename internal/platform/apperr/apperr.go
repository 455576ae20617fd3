// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every service returns to the HTTP layer.

An [AppError] pairs a machine-readable code with a message that is safe to
show to API clients. The HTTP status travels with it, but only package respond
reads it. Anything that is not an AppError is reported as INTERNAL_ERROR.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is a client-facing failure.
//
// Cause is for server-side logs only and is never serialised, so SQL and
// driver messages do not reach clients.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// WithFieldPrefix returns a copy whose detail fields are prefixed, so a
// failure inside a batch can point at its element, e.g. "books[3].genre".
// The receiver is left unchanged.
func (e *AppError) WithFieldPrefix(prefix string) *AppError {
	clone := *e
	clone.Details = make([]FieldError, len(e.Details))
	for i, detail := range e.Details {
		clone.Details[i] = FieldError{Field: prefix + detail.Field, Message: detail.Message}
	}
	return &clone
}

// # Client Errors (4xx)

// NotFound reports a missing resource, e.g. NotFound("Book") -> "Book not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

// NotFoundID reports a missing resource by identifier.
func NotFoundID(resource string, id any) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, fmt.Sprintf("%s with id %v not found", resource, id))
}

// Unauthorized is a 401. Package respond adds the WWW-Authenticate header.
func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message)
}

// Forbidden is a 403.
func Forbidden(message string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, message)
}

// Conflict is a 409 for duplicates and unique-constraint violations.
func Conflict(message string) *AppError {
	return newError(CodeConflict, http.StatusConflict, message)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(message string, details ...FieldError) *AppError {
	e := newError(CodeValidation, http.StatusBadRequest, message)
	e.Details = details
	return e
}

// RateLimited is a 429.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, http.StatusTooManyRequests,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	e := newError(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred")
	e.Cause = cause
	return e
}

// # Helpers

// As returns the [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with code.
func HasCode(err error, code string) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == code
}
