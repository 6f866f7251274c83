package census

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios
var (
	// ErrMissingAPIKey is returned when a client is constructed without a key.
	ErrMissingAPIKey = errors.New("census: missing API key")

	// ErrChunkMismatch is returned when the sub-requests of a chunked fetch
	// disagree on row count and cannot be merged positionally.
	ErrChunkMismatch = errors.New("census: chunked responses returned differing row counts")
)

// invalidKeyMarker is the title of the HTML error page the API serves with a
// 200 status when the key is not valid.
const invalidKeyMarker = "<title>Invalid Key</title>"

// transientErrorMessage is the exact body substring the API uses for its
// retryable internal error. The double spaces are part of the upstream text.
const transientErrorMessage = "There was an error while running your query.  We've logged the error and we'll correct it ASAP.  Sorry for the inconvenience."

// APIKeyError reports that the API rejected the configured key. It is
// detected by the invalid-key HTML page the server returns in place of JSON.
type APIKeyError struct {
	// Body is the offending response body with line breaks collapsed.
	Body string
}

func (e *APIKeyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("census: invalid API key: %s", e.Body)
}

// newAPIKeyError collapses the HTML error page into a single line.
func newAPIKeyError(body string) *APIKeyError {
	return &APIKeyError{Body: strings.Join(strings.Fields(body), " ")}
}

// QueryError reports any non-success, non-empty API response. It carries the
// raw response text so callers can inspect the upstream message.
type QueryError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *QueryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("census: query failed (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("census: query failed: %s", e.Body)
}

// Is compares by status code for errors.Is.
func (e *QueryError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*QueryError)
	return ok && e.StatusCode == t.StatusCode
}

// UnsupportedYearError reports a request for a year outside the declared
// supported set of the geography method or dataset.
type UnsupportedYearError struct {
	Year      int
	Supported []int
}

func (e *UnsupportedYearError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("census: geography is not available in %d; available years include %v", e.Year, e.Supported)
}

// IsTransient reports whether err is the API's retryable internal error.
// Only that exact upstream message is considered transient; every other
// failure propagates to the caller immediately.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return strings.Contains(qe.Body, transientErrorMessage)
	}
	return false
}
