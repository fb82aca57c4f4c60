// Package apperr defines the typed errors the API surfaces to clients.
// Every error carries an HTTP-ish status code and, for validation failures,
// the list of field-level messages. The GraphQL layer exposes both through
// error extensions, so clients always receive a {message, status, data}
// envelope.
package apperr

import (
	"errors"
	"net/http"
)

// Error is an error with an associated status code and optional
// structured detail.
type Error struct {
	Message string
	Status  int
	Data    []string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions implements the extension hook of graph-gophers/graphql-go:
// the returned map is attached to the GraphQL error object.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"status": e.Status}
	if len(e.Data) > 0 {
		ext["data"] = e.Data
	}
	return ext
}

// Validation reports malformed client input. All messages collected for one
// call travel together in Data.
func Validation(data []string) *Error {
	return &Error{Message: "Invalid Input", Status: http.StatusUnprocessableEntity, Data: data}
}

// NotFound reports an absent entity.
func NotFound(message string) *Error {
	return &Error{Message: message, Status: http.StatusNotFound}
}

// Unauthenticated reports a missing or invalid identity.
func Unauthenticated(message string) *Error {
	return &Error{Message: message, Status: http.StatusUnauthorized}
}

// Forbidden reports a valid identity with insufficient rights.
func Forbidden(message string) *Error {
	return &Error{Message: message, Status: http.StatusForbidden}
}

// Conflict reports a duplicate of a unique field.
func Conflict(message string) *Error {
	return &Error{Message: message, Status: http.StatusConflict}
}

// Internal reports an unexpected server-side failure.
func Internal(message string) *Error {
	return &Error{Message: message, Status: http.StatusInternalServerError}
}

// StatusOf extracts the status code from err, defaulting to 500 for
// untyped errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}
