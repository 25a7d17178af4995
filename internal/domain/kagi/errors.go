package kagi

import (
	"errors"
	"fmt"
)

// Input errors are raised before any network activity and are deliberately
// plain: callers must be able to tell "you called me wrong" apart from
// "the backend failed" (*APIError).
var (
	// ErrMissingAPIKey is returned when a client is constructed without a credential.
	ErrMissingAPIKey = errors.New("kagi: api key is required")
	// ErrSummarizeNoSource is returned when Summarize receives neither url nor text.
	ErrSummarizeNoSource = errors.New("kagi: summarize requires either url or text")
	// ErrSummarizeBothSources is returned when Summarize receives both url and text.
	ErrSummarizeBothSources = errors.New("kagi: summarize accepts only one of url or text")
)

// APIError is the single error shape every backend-originated failure is
// normalized into: transport failures, non-2xx statuses, and malformed
// responses all surface as *APIError.
type APIError struct {
	Message string // backend-reported message when present, transport message otherwise
	Code    int    // HTTP status; 0 when no response was received
	Details any    // raw backend error payload when present
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("kagi: %s (status %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("kagi: %s", e.Message)
}

// AsAPIError unwraps err into an *APIError if one is anywhere in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
