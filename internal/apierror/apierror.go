// Package apierror provides the canonical error envelope for the API.
// Every 4xx/5xx response carries a machine-readable code plus a human
// detail string; internal details (stack traces, DB errors) never cross
// the API boundary.
package apierror

import "net/http"

// Error is an API-visible error. Services return *Error values so handlers
// can map them 1:1 onto HTTP responses without per-call-site status logic.
type Error struct {
	Status int    `json:"-"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
	// Extra carries diagnostic fields returned alongside the error body,
	// e.g. expectedCash/discrepancy on a rejected close.
	Extra map[string]any `json:"-"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Detail }

// New builds an error with the given HTTP status, code and detail.
func New(status int, code, detail string) *Error {
	return &Error{Status: status, Code: code, Detail: detail}
}

// With returns a copy of e carrying an additional envelope field.
// The receiver is not mutated, so package-level sentinels stay shareable.
func (e *Error) With(key string, value any) *Error {
	extra := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		extra[k] = v
	}
	extra[key] = value
	return &Error{Status: e.Status, Code: e.Code, Detail: e.Detail, Extra: extra}
}

// Envelope renders the JSON body for the response.
func (e *Error) Envelope() map[string]any {
	body := map[string]any{"code": e.Code, "detail": e.Detail}
	for k, v := range e.Extra {
		body[k] = v
	}
	return body
}

// Common sentinels shared across handlers and middleware.
var (
	ErrUnauthenticated = New(http.StatusUnauthorized, "unauthenticated", "authentication required")
	ErrForbidden       = New(http.StatusForbidden, "forbidden", "insufficient permissions")
	ErrNotFound        = New(http.StatusNotFound, "not_found", "resource not found")
)

// Internal is the opaque 500 returned for unexpected failures. The real
// error is logged server-side only.
func Internal() *Error {
	return New(http.StatusInternalServerError, "internal_error", "internal server error")
}

// Invalid builds a 400 validation error.
func Invalid(code, detail string) *Error {
	return New(http.StatusBadRequest, code, detail)
}

// Conflict builds a 409 state-conflict error.
func Conflict(code, detail string) *Error {
	return New(http.StatusConflict, code, detail)
}

// ValidationError wraps per-field binding failures (malformed shapes).
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: "validation_failed", Detail: "request validation failed", Fields: fields}
}
