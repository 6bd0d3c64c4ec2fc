// Package apierr defines the typed failure that pipeline stages and route
// guards raise. The HTTP error handler is the single place where these are
// rendered, so every stage can abort with a precise status and machine code
// without knowing anything about response formatting.
package apierr

import "net/http"

// Error carries an HTTP status, a machine-readable code and a human message.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with an explicit status and code.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func TokenInvalid(message string) *Error {
	return New(http.StatusUnauthorized, "TOKEN_INVALID", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "FORBIDDEN", message)
}
