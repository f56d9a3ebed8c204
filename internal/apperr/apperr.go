// Package apperr defines the application error taxonomy: numeric codes
// grouped by category, carried alongside the HTTP status they map to.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a stable numeric error code surfaced in API responses
type Code int

const (
	// General (1000-1999)
	CodeUnknown    Code = 1000
	CodeValidation Code = 1001
	CodeDatabase   Code = 1002

	// Authentication (2000-2999)
	CodeUnauthorized  Code = 2000
	CodeTokenExpired  Code = 2001
	CodeTokenInvalid  Code = 2002
	CodeLoginFailed   Code = 2003
	CodeAccountLocked Code = 2004

	// Authorization (3000-3999)
	CodeForbidden     Code = 3000
	CodeAdminRequired Code = 3001

	// Resources (4000-4999)
	CodeNotFound      Code = 4000
	CodeMovieNotFound Code = 4001
	CodeUserNotFound  Code = 4002
	CodeDuplicate     Code = 4004

	// Business (5000-5999)
	CodeRateLimited Code = 5000
	CodeUpstream    Code = 5004
)

// Error is an application error with a code and HTTP status. Services return
// it for expected failure modes; anything else is treated as an internal
// error at the HTTP boundary.
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error
func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches an underlying cause to an application error
func Wrap(code Code, status int, message string, err error) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(CodeValidation, http.StatusBadRequest, message)
}

func NotFound(code Code, message string) *Error {
	return New(code, http.StatusNotFound, message)
}

func Unauthorized(code Code, message string) *Error {
	return New(code, http.StatusUnauthorized, message)
}

func Forbidden(code Code, message string) *Error {
	return New(code, http.StatusForbidden, message)
}

func Duplicate(message string) *Error {
	return New(CodeDuplicate, http.StatusConflict, message)
}

// From extracts an *Error from err, or classifies it as an internal error.
// The fallback never leaks the underlying message to clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(CodeUnknown, http.StatusInternalServerError, "internal server error", err)
}
