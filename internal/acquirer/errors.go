package acquirer

import (
	"errors"
	"fmt"
)

var (
	// ErrAcquirerUnavailable covers connection failures and 503 responses.
	ErrAcquirerUnavailable = errors.New("acquirer is unavailable")
	// ErrAcquirerRejected is returned when the bank answers 400.
	ErrAcquirerRejected = errors.New("acquirer rejected request")
	// ErrAcquirerFailure is any other unexpected acquirer outcome.
	ErrAcquirerFailure = errors.New("acquirer failure")
)

// RejectedError carries the bank's body for a 400 response.
type RejectedError struct {
	Body string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAcquirerRejected, e.Body)
}

func (e *RejectedError) Unwrap() error {
	return ErrAcquirerRejected
}

// StatusError is an error status the client has no special handling for.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: received status code %d", ErrAcquirerFailure, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrAcquirerFailure
}
