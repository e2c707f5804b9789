package util

import (
	"net/http"
	"time"
)

const (
	restTimeout = 10 * time.Second
)

// NewRestClient returns the HTTP client used for every Discord REST call.
// The timeout bounds a stalled delivery so the scheduler loop moves on.
func NewRestClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = restTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}
