// Package errors defines the error envelope shared by all HTTP handlers: a
// typed error carrying a client-safe message, an optional cause, and free-form
// context fields. The Echo middleware in middleware.go turns these into JSON
// responses, log lines and metrics.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an error for status mapping, metrics and log level.
type ErrorType string

const (
	TypeValidation ErrorType = "validation"
	TypeNotFound   ErrorType = "not_found"
	TypeConflict   ErrorType = "conflict"
	TypeInternal   ErrorType = "internal"
	// TypeExternal marks upstream dependency failures. No constructor exists
	// for it here; it is produced by WrapHTTPError for 502/503 responses.
	TypeExternal ErrorType = "external"
)

var statusByType = map[ErrorType]int{
	TypeValidation: http.StatusBadRequest,
	TypeNotFound:   http.StatusNotFound,
	TypeConflict:   http.StatusConflict,
	TypeInternal:   http.StatusInternalServerError,
	TypeExternal:   http.StatusBadGateway,
}

// Error is the service-wide error envelope. Message is safe to show to
// clients; Cause holds internal detail that only reaches the logs.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func newTyped(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message, Context: map[string]any{}}
}

// ValidationError reports invalid client input (400).
func ValidationError(message string) *Error {
	return newTyped(TypeValidation, message)
}

// NotFoundError reports a missing resource (404).
func NotFoundError(message string) *Error {
	return newTyped(TypeNotFound, message)
}

// ConflictError reports a write conflict, either an optimistic-concurrency
// version mismatch or an idempotency key reuse (409).
func ConflictError(message string) *Error {
	return newTyped(TypeConflict, message)
}

// InternalError wraps an unexpected failure (500). The cause is logged but
// never serialized to the client.
func InternalError(message string, cause error) *Error {
	e := newTyped(TypeInternal, message)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error type to a response status code. Unknown types
// answer as internal errors.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithContext attaches a key/value pair, returning the error for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// WithField is shorthand for WithContext.
func (e *Error) WithField(key string, value any) *Error {
	return e.WithContext(key, value)
}

// ErrorResponse is the JSON body clients receive.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse strips the cause and returns the client-facing payload.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError coerces any error into an *Error. Foreign errors are
// wrapped as internal with a generic message.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}

	return InternalError("internal server error", err)
}
