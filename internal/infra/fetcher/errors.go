package fetcher

import (
	"errors"
	"fmt"
)

// Sentinel errors for page fetching.
var (
	// ErrInvalidURL indicates a malformed URL or a disallowed scheme.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	ErrPrivateIP = errors.New("URL resolves to private IP address")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrTimeout indicates the request exceeded its per-request timeout.
	ErrTimeout = errors.New("request timeout")
)

// StatusError represents a non-success HTTP response.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}
