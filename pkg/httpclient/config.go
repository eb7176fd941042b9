// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package httpclient

import "time"

// Config holds the configuration for the retrying HTTP client.
type Config struct {
	// Timeout is the per-request timeout applied to the underlying http.Client
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts after the first request
	MaxRetries int

	// RetryDelay is the base delay between retry attempts
	RetryDelay time.Duration

	// RetryBackoff enables exponential backoff with jitter between attempts
	RetryBackoff bool

	// MaxDelay caps the backoff delay; defaults to 30s when zero
	MaxDelay time.Duration
}
