package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"bookshelf/internal/envelope"
)

// ErrMalformedResponse is returned when a singular response cannot be parsed
// into the expected record.
var ErrMalformedResponse = envelope.ErrMalformed

// NetworkError wraps a transport failure: the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx answer from the API, either on the wire or inside a
// Lambda-proxy envelope.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool     { return StatusCode(err) == http.StatusNotFound }
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusCode(err) == http.StatusForbidden }

func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// translate maps envelope-level failures onto the client's error types.
func translate(method, path string, err error) error {
	if err == nil {
		return nil
	}
	var proxyErr *envelope.ProxyError
	if errors.As(err, &proxyErr) {
		return &HTTPError{Method: method, Path: path, StatusCode: proxyErr.StatusCode, Body: proxyErr.Body}
	}
	if errors.Is(err, envelope.ErrMalformed) {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return err
}
