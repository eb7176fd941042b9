// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	config := Config{
		Timeout:      10 * time.Second,
		MaxRetries:   2,
		RetryDelay:   500 * time.Millisecond,
		RetryBackoff: true,
	}

	client := NewClient(config)

	assert.Equal(t, config.Timeout, client.config.Timeout)
	assert.Equal(t, config.MaxRetries, client.config.MaxRetries)
	assert.Equal(t, config.Timeout, client.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, client.config.MaxDelay, "MaxDelay should default when unset")
}

func TestClientDoSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id": 1905, "name": "Fortnite"}]`))
	}))
	defer server.Close()

	client := NewClient(Config{Timeout: 5 * time.Second})

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "Fortnite")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)

	retryable, ok := err.(*RetryableError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, retryable.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

type headerStampRoundTripper struct {
	key, value string
}

func (h headerStampRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	req.Header.Set(h.key, h.value)
	return next(req)
}

func TestClientRoundTripperChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-abc", r.Header.Get("Client-ID"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{Timeout: 5 * time.Second})
	client.AddRoundTripper(headerStampRoundTripper{key: "Client-ID", value: "client-abc"})

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
