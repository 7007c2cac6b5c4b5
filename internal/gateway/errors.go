package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError reports a transport failure talking to the contents API.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ErrNotDirectory is the cause of a GatewayError when the listed path is
// a file.
var ErrNotDirectory = errors.New("path is not a directory")

// GatewayError reports a non-success status from the contents API, or a
// success response that is not a listing. Err is the cause, if any.
type GatewayError struct {
	Status int
	URL    string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github api error: %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("github api error: %d", e.Status)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ContentFetchError reports a failed raw file download. Status is zero
// when the request never produced a response.
type ContentFetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *ContentFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *ContentFetchError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is a GatewayError caused by API
// rate limiting.
func IsRateLimited(err error) bool {
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		return false
	}
	return gwErr.Status == http.StatusForbidden || gwErr.Status == http.StatusTooManyRequests
}
