package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a 200 response body is not the expected JSON.
	ErrDecode = errors.New("decode error")
)

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A timeout <= 0 selects the 10 second default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

// PathEscape percent-encodes a single URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
