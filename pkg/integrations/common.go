package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned for HTTP 404. OSV uses it for "no advisories";
	// raw.githubusercontent.com uses it for a missing branch or file.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned when no response was received (DNS, connection
	// reset, timeout).
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("malformed response")
)

// StatusError reports a response whose status is neither 2xx nor 404.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
