package agent

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP class of a turn failure
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

var (
	ErrAvatarNotFound     = newError(http.StatusNotFound, "Avatar not found")
	ErrNoProviderKey      = newError(http.StatusBadRequest, "No OpenAI API key found.")
	ErrMissingFields      = newError(http.StatusBadRequest, "avatar_id and message are required")
	ErrInvalidAvatarID    = newError(http.StatusBadRequest, "Invalid avatar_id")
	ErrAvatarNotAllowed   = newError(http.StatusForbidden, "API key is not authorized for this avatar")
	ErrInvalidMessageType = newError(http.StatusBadRequest, "Unsupported message_type")
)

// upstreamError wraps a model-provider failure as a 500
func upstreamError(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("OpenAI API error: %v", err),
		Err:     err,
	}
}

// StatusOf maps any error to the status the HTTP layer should answer with
func StatusOf(err error) int {
	var agentErr *Error
	if errors.As(err, &agentErr) && agentErr.Status != 0 {
		return agentErr.Status
	}
	return http.StatusInternalServerError
}
