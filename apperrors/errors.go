// apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure. Handlers map kinds to HTTP status codes
// once, at the response boundary; services never touch echo or net/http.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindInvalidCredentials
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindStore
)

// Error carries a kind and a message safe to return to the client. Secrets,
// password hashes and raw token strings must never appear in Message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err. Anything that is not an *Error is
// treated as an unexpected store/internal failure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// StatusOf maps an error to the HTTP status used by the response envelope.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf returns the client-facing message for err. Internal failures get
// a generic message so store errors never leak details.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
