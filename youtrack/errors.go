package youtrack

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors matched by errors.Is on an *APIError.
var (
	ErrUnauthorized = errors.New("youtrack: unauthorized")
	ErrNotFound     = errors.New("youtrack: not found")
	ErrRateLimited  = errors.New("youtrack: rate limited")
)

// ErrNullResponse is returned when the server answers with a JSON null.
var ErrNullResponse = errors.New("youtrack: unexpected null response")

// APIError is a response with a status outside 2xx.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	// Message is the error_description the server sent, if any.
	Message string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("youtrack: %s: response status: %s", e.Endpoint, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is maps status codes to the package sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == ErrUnauthorized
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}
