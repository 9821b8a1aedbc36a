// Package cti downloads ATT&CK STIX bundles published on GitHub.
package cti

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCollection indicates a collection name outside the published set.
var ErrInvalidCollection = errors.New("cti: unknown collection")

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("cti: GitHub rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cti: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}
