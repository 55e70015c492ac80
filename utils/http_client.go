package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the outbound client used for calls to the other
// cloudtask services.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}
