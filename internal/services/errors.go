package services

import (
	"errors"

	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
)

// ErrNotAuthenticated is returned by operations that need a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ActionError carries the operator-facing message of a failed action.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// failure wraps err with the backend message, or fallback when it has none.
func failure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &ActionError{Message: apperrors.MessageOf(err, fallback), Err: err}
}

// rejected builds the error for a 2xx envelope with success=false.
func rejected(message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return &ActionError{Message: message}
}

// UserMessage returns the message to show an operator for err.
func UserMessage(err error, fallback string) string {
	var actionErr *ActionError
	if errors.As(err, &actionErr) && actionErr.Message != "" {
		return actionErr.Message
	}
	return apperrors.MessageOf(err, fallback)
}
