package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed console error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Error codes shared across the console.
const (
	CodeTransport  = "TRANSPORT_ERROR"
	CodeServer     = "SERVER_ERROR"
	CodeValidation = "VALIDATION_ERROR"
)

// Predefined errors for common scenarios.
var (
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden      = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized   = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict       = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation     = New(CodeValidation, http.StatusBadRequest, "validation failed")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrTransport      = New(CodeTransport, http.StatusBadGateway, "unable to reach the server, check your connection")
	ErrServer         = New(CodeServer, http.StatusBadGateway, "Something went wrong")
	ErrCacheMiss      = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrNotLoggedIn    = New("NOT_LOGGED_IN", http.StatusUnauthorized, "no active session, please sign in")
	ErrExportDisabled = New("EXPORTS_DISABLED", http.StatusServiceUnavailable, "exports are disabled")
)

// Transport wraps a network-level failure.
func Transport(err error, message string) *Error {
	if message == "" {
		message = ErrTransport.Message
	}
	return Wrap(err, CodeTransport, ErrTransport.Status, message)
}

// Server builds an error from a non-2xx upstream response. The upstream message
// is kept verbatim; status mirrors the upstream code when it is a client error.
func Server(upstreamStatus int, message string) *Error {
	if message == "" {
		message = ErrServer.Message
	}
	status := http.StatusBadGateway
	if upstreamStatus >= 400 && upstreamStatus < 500 {
		status = upstreamStatus
	}
	return New(CodeServer, status, message)
}

// Validation builds a client-side validation error.
func Validation(err error, message string) *Error {
	if message == "" {
		message = ErrValidation.Message
	}
	return Wrap(err, CodeValidation, ErrValidation.Status, message)
}

// IsTransport reports whether err is a normalized transport failure.
func IsTransport(err error) bool { return hasCode(err, CodeTransport) }

// IsServer reports whether err carries an upstream error response.
func IsServer(err error) bool { return hasCode(err, CodeServer) }

// IsValidation reports whether err was rejected before any network call.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
