// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package igdb

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the IGDB client
type Config struct {
	// BaseURL is the IGDB API base URL
	BaseURL string

	// TokenURL is the Twitch OAuth2 token endpoint used for client-credentials auth
	TokenURL string

	// ClientID is the Twitch developer application client id
	ClientID string

	// ClientSecret is the Twitch developer application client secret
	ClientSecret string

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.igdb.com/v4",
		TokenURL:   "https://id.twitch.tv/oauth2/token",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if baseURL := os.Getenv("IGDB_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if tokenURL := os.Getenv("IGDB_TOKEN_URL"); tokenURL != "" {
		config.TokenURL = tokenURL
	}

	if clientID := os.Getenv("IGDB_CLIENT_ID"); clientID != "" {
		config.ClientID = clientID
	}

	if clientSecret := os.Getenv("IGDB_CLIENT_SECRET"); clientSecret != "" {
		config.ClientSecret = clientSecret
	}

	if timeoutStr := os.Getenv("IGDB_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	if retriesStr := os.Getenv("IGDB_MAX_RETRIES"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil {
			config.MaxRetries = retries
		}
	}

	if delayStr := os.Getenv("IGDB_RETRY_DELAY"); delayStr != "" {
		if delay, err := time.ParseDuration(delayStr); err == nil {
			config.RetryDelay = delay
		}
	}

	return config
}
