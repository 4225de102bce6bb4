package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrMethodNotAllowed indicates the backend does not support the verb on a route
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrAccessDenied indicates the user doesn't have permission
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a conflict with existing data
	ErrConflict = errors.New("conflict")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// Messages surfaced to operators when the backend gives nothing better.
const (
	NetworkErrorMessage    = "Network error. Please check your connection."
	ServerErrorMessage     = "An error occurred"
	UnexpectedErrorMessage = "An unexpected error occurred"
)

// Kind classifies a failed backend call.
type Kind string

const (
	// KindNetwork means no response was received (transport failure or timeout).
	KindNetwork Kind = "network"
	// KindServer means the backend answered with a non-2xx status.
	KindServer Kind = "server"
	// KindUnexpected covers local failures such as encoding or URL errors.
	KindUnexpected Kind = "unexpected"
)

// APIError is the single error shape produced by the HTTP gateway.
type APIError struct {
	Kind    Kind            `json:"kind"`
	Message string          `json:"message"`
	Status  int             `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Err     error           `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause and maps well-known statuses to sentinel errors so
// callers can use errors.Is(err, ErrUnauthorized) and friends.
func (e *APIError) Unwrap() []error {
	var errs []error
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	switch e.Status {
	case http.StatusUnauthorized:
		errs = append(errs, ErrUnauthorized)
	case http.StatusForbidden:
		errs = append(errs, ErrAccessDenied)
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	case http.StatusMethodNotAllowed:
		errs = append(errs, ErrMethodNotAllowed)
	case http.StatusConflict:
		errs = append(errs, ErrConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errs = append(errs, ErrInvalidInput)
	}
	if e.Status >= 500 {
		errs = append(errs, ErrInternal)
	}
	return errs
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: NetworkErrorMessage, Err: err}
}

// NewServerError builds an error for a non-2xx response. The message falls
// back to ServerErrorMessage when the body carries none.
func NewServerError(status int, message string, data json.RawMessage) *APIError {
	if message == "" {
		message = ServerErrorMessage
	}
	return &APIError{Kind: KindServer, Message: message, Status: status, Data: data}
}

// NewUnexpectedError wraps a local failure.
func NewUnexpectedError(err error) *APIError {
	msg := UnexpectedErrorMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &APIError{Kind: KindUnexpected, Message: msg, Err: err}
}

// AsAPIError extracts an *APIError from the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetwork reports whether err is a network-kind API error.
func IsNetwork(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindNetwork
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns an operator-facing message for err, falling back to
// fallback when err carries none.
func MessageOf(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}
