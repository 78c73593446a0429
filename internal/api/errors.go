package api

import (
	"encoding/json"
	"net/http"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeNotAllowed indicates the resource does not support the verb.
	ErrCodeNotAllowed ErrorCode = "not_allowed"

	// ErrCodeForbidden indicates the client may not access the API.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeValidationFailed indicates a rejected candidate document.
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"
)

// Error is a status-bearing client error. Handlers return one to pick the
// response status and message; any other error type is rendered as a
// generic 500 with the cause kept out of the response.
type Error struct {
	Status  int       `json:"-"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorResponse wraps an Error for JSON rendering.
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// InvalidRequest builds a 400 error.
func InvalidRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: ErrCodeInvalidRequest, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// NotAllowed builds a 405 error.
func NotAllowed(message string) *Error {
	return &Error{Status: http.StatusMethodNotAllowed, Code: ErrCodeNotAllowed, Message: message}
}

// ValidationFailed builds a 400 error for a rejected candidate document.
func ValidationFailed(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: ErrCodeValidationFailed, Message: message}
}

func writeError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// writeForbidden writes a 403 Forbidden error.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, &Error{Status: http.StatusForbidden, Code: ErrCodeForbidden, Message: message})
}

// writeInternalError writes a 500 Internal Server Error.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, &Error{Status: http.StatusInternalServerError, Code: ErrCodeInternalError, Message: message})
}
