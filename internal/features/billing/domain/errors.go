package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the billing API reports success but the
// body lacks the identifier the caller depends on.
var ErrMalformedResponse = errors.New("malformed upstream response")

// UpstreamError describes a billing API call that did not produce the expected resource.
type UpstreamError struct {
	// Operation names the failed call, e.g. "create client".
	Operation string
	// StatusCode is the HTTP status returned by the billing API.
	StatusCode int
	// Body is the (possibly truncated) response body, kept for diagnostics.
	Body string
	// Err is the underlying cause, if any (e.g. ErrMalformedResponse).
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: billing API returned status %d", e.Operation, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
