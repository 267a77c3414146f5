package mesh

import (
	"errors"
	"fmt"
)

// Sentinel errors for page rejection. Callers match them with errors.Is to
// decide whether a failure is retryable or should surface immediately.
var (
	// ErrInvalidURL means the input cannot be normalized to an http(s) URL
	// with a host. Never retried.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidContentType means the response declared a non-HTML content
	// type. Never retried.
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrContentTooLarge means the response exceeded the configured size
	// limit, either by declared Content-Length or by actual body size.
	ErrContentTooLarge = errors.New("content too large")
)

// HTTPStatusError reports a non-2xx response that was not recovered by the
// retry policy.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error renders a user-facing message, with a targeted hint for 403s.
func (e *HTTPStatusError) Error() string {
	if e.StatusCode == 403 {
		return fmt.Sprintf("HTTP error 403 fetching %s: blocked by the site; try same-domain-only or a different URL", e.URL)
	}
	return fmt.Sprintf("HTTP error %d fetching %s", e.StatusCode, e.URL)
}
