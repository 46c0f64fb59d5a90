// Package apperrors defines the error taxonomy shared by the session,
// share, access and guard services. Services return *Error values; the
// HTTP layer maps them onto status codes with HTTPStatus and never
// inspects message text.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal     Kind = iota // unexpected store/backend failure
	KindValidation               // malformed input
	KindAuthRequired             // no identity presented
	KindPermission               // identity known but not entitled
	KindNotFound                 // session/token/resource absent
	KindGone                     // token expired
	KindRateLimit                // request throttled
)

// Error carries a kind, a stable machine code and a human message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

func AuthRequired(message string) *Error {
	return &Error{Kind: KindAuthRequired, Code: "UNAUTHORIZED", Message: message}
}

func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Code: "FORBIDDEN", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func Gone(message string) *Error {
	return &Error{Kind: KindGone, Code: "GONE", Message: message}
}

func RateLimit(message string) *Error {
	return &Error{Kind: KindRateLimit, Code: "RATE_LIMIT_EXCEEDED", Message: message}
}

// Internal wraps an unexpected failure. The cause is preserved for logs
// but is never written to an HTTP response.
func Internal(cause error, message string) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, cause: cause}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsValidation(err error) bool   { return IsKind(err, KindValidation) }
func IsAuthRequired(err error) bool { return IsKind(err, KindAuthRequired) }
func IsPermission(err error) bool   { return IsKind(err, KindPermission) }
func IsNotFound(err error) bool     { return IsKind(err, KindNotFound) }
func IsGone(err error) bool         { return IsKind(err, KindGone) }
func IsRateLimit(err error) bool    { return IsKind(err, KindRateLimit) }

// HTTPStatus maps an error onto the HTTP status the server should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindGone:
		return http.StatusGone
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the machine code for err, or INTERNAL_ERROR.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "INTERNAL_ERROR"
}
