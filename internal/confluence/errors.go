package confluence

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	// ErrEmptyContent is returned when a page exists but its exported HTML
	// body is empty. An empty export cannot be transformed or imported, so
	// the crawl treats this as fatal for the run.
	ErrEmptyContent = errors.New("page has no exported content")

	// ErrAssetTooLarge is returned when a binary asset exceeds the
	// configured per-asset byte cap. The inliner recovers from this
	// locally by keeping the original reference.
	ErrAssetTooLarge = errors.New("asset exceeds size cap")
)

// maxBodyExcerpt is how many bytes of an error response body are kept on a
// StatusError. Enough to see the API's error message, short enough to log.
const maxBodyExcerpt = 256

// StatusError is returned when the API answers with a non-2xx status.
// These are never retried: the server reached a decision, so repeating the
// request would repeat the answer.
type StatusError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// URL is the request URL that produced the response.
	URL string

	// Body is a truncated excerpt of the response body.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}
