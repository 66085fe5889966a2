package client

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures to reach the API at all.
	ErrTransport = errors.New("api unreachable")
	// ErrMalformedResponse means the API answered with a body none of the
	// known shapes match.
	ErrMalformedResponse = errors.New("malformed api response")
)

// APIError is a business failure: a non-2xx status or "success": false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Message returns the server-provided message of an *APIError in err's
// chain, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
