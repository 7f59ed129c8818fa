package feedback

import (
	"errors"
	"fmt"
)

// Configuration errors returned by NewConfig. These are construction-time
// failures and abort setup; they are never produced after a Config exists.
var (
	// ErrInvalidEndpoint means the endpoint was empty or not an absolute URL.
	ErrInvalidEndpoint = errors.New("feedback: endpoint must be an absolute URL")

	// ErrInvalidDelay means PromptDelayDays was negative.
	ErrInvalidDelay = errors.New("feedback: prompt delay days must be >= 0")
)

// Submission precondition errors. All three are detected before any network
// I/O happens.
var (
	// ErrNotConfigured means the pipeline was built without a Config.
	ErrNotConfigured = errors.New("feedback: not configured")

	// ErrMissingEndpoint means the Config carries no submission endpoint.
	ErrMissingEndpoint = errors.New("feedback: no submission endpoint configured")

	// ErrInvalidConfig means the Config carries no HTTP client.
	ErrInvalidConfig = errors.New("feedback: no HTTP client configured")
)

// ResponseError reports a non-200 response from the collector. The response
// body (when readable) is captured for diagnostics; the record was NOT
// accepted and may be resubmitted unchanged.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("feedback: collector returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("feedback: collector returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError reports that the HTTP exchange itself failed (connection
// refused, timeout, TLS or DNS failure). The underlying cause is available
// via errors.Unwrap / errors.As.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("feedback: submission transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
