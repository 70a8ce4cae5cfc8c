package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/mtlobby/internal/model"
)

// APIError is the error object in every failed response body
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidIdentity    = "INVALID_IDENTITY"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePlayerNotConnected = "PLAYER_NOT_CONNECTED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Error is an error that already knows its HTTP status and body
type Error struct {
	Status int
	Body   APIError
}

func (e *Error) Error() string {
	return e.Body.Message
}

// Domain errors that surface over HTTP. Anything else is an internal error.
var sentinels = []struct {
	target error
	status int
	body   APIError
}{
	{model.ErrDecrypt, http.StatusBadRequest, APIError{CodeInvalidIdentity, "Identity could not be decrypted"}},
	{model.ErrNotConnected, http.StatusNotFound, APIError{CodePlayerNotConnected, "Player has no live session"}},
}

// WriteError writes err as a JSON error response
func WriteError(w http.ResponseWriter, err error) {
	e := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: e.Body})
}

// From maps err to the Error written for it
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, s := range sentinels {
		if errors.Is(err, s.target) {
			return &Error{Status: s.status, Body: s.body}
		}
	}
	return NewInternalError()
}

// NewInvalidRequestError reports a malformed request
func NewInvalidRequestError(message string) *Error {
	return &Error{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// Missing reports a required field that was absent or empty
func Missing(field string) *Error {
	return NewInvalidRequestError(field + " is required")
}

// NewUnauthorizedError reports a missing or wrong service token
func NewUnauthorizedError() *Error {
	return &Error{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError hides the cause from the caller
func NewInternalError() *Error {
	return &Error{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
