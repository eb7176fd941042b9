// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package igdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covida/game-catalog-service/pkg/constants"
	errs "github.com/covida/game-catalog-service/pkg/errors"
)

// newTestServer serves both the OAuth2 token endpoint and the games endpoint,
// recording the last Apicalypse body it received.
func newTestServer(t *testing.T, status int, payload string) (*httptest.Server, *string) {
	t.Helper()

	var lastBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-client", r.Header.Get("Client-ID"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		lastBody = string(body)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &lastBody
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	client, err := NewClient(Config{
		BaseURL:      server.URL,
		TokenURL:     server.URL + "/oauth2/token",
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryDelay:   time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{ClientID: "only-id"})
	assert.Error(t, err)

	_, err = NewClient(Config{ClientSecret: "only-secret"})
	assert.Error(t, err)
}

func TestTopGames(t *testing.T) {
	rating := 97.5
	follows := int64(420)
	payload, err := json.Marshal([]gameObject{
		{ID: 1942, Name: "The Witcher 3", Summary: "RPG", TotalRating: &rating, Follows: &follows},
		{ID: 732, Name: "Grand Theft Auto V"},
	})
	require.NoError(t, err)

	server, lastBody := newTestServer(t, http.StatusOK, string(payload))
	client := newTestClient(t, server)

	games, err := client.TopGames(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, int64(1942), games[0].ID)
	assert.Equal(t, "The Witcher 3", games[0].Name)
	require.NotNil(t, games[0].TotalRating)
	assert.InDelta(t, 97.5, *games[0].TotalRating, 0.001)
	require.NotNil(t, games[0].Follows)
	assert.Equal(t, int64(420), *games[0].Follows)

	assert.Equal(t, "Grand Theft Auto V", games[1].Name)
	assert.Nil(t, games[1].TotalRating)
	assert.Nil(t, games[1].Follows)

	assert.Equal(t,
		"fields name, total_rating, summary, follows; where category = 0; sort follows desc; where follows != null; limit 2;",
		*lastBody)
}

func TestTopGamesLimitValidation(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, "[]")
	client := newTestClient(t, server)

	for _, limit := range []int{0, -1, constants.MaxCatalogLimit + 1} {
		_, err := client.TopGames(context.Background(), limit)

		var validation errs.Validation
		assert.ErrorAs(t, err, &validation, "limit %d", limit)
	}
}

func TestSearchGames(t *testing.T) {
	payload, err := json.Marshal([]gameObject{{ID: 11, Name: "Celeste"}})
	require.NoError(t, err)

	server, lastBody := newTestServer(t, http.StatusOK, string(payload))
	client := newTestClient(t, server)

	games, err := client.SearchGames(context.Background(), "celeste", 5)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Celeste", games[0].Name)

	assert.Equal(t,
		`fields name, total_rating, summary, follows; where category = 0; search "celeste"; limit 5;`,
		*lastBody)
}

func TestGamesByIDs(t *testing.T) {
	payload, err := json.Marshal([]gameObject{{ID: 7, Name: "Portal"}, {ID: 8, Name: "Portal 2"}})
	require.NoError(t, err)

	server, lastBody := newTestServer(t, http.StatusOK, string(payload))
	client := newTestClient(t, server)

	games, err := client.GamesByIDs(context.Background(), []int64{7, 8})
	require.NoError(t, err)
	assert.Len(t, games, 2)

	assert.Equal(t,
		"fields name, total_rating, summary, follows; where category = 0; sort total_rating desc; where id = (7, 8);",
		*lastBody)
}

func TestGamesByIDsEmptySkipsRemoteCall(t *testing.T) {
	server, lastBody := newTestServer(t, http.StatusOK, "[]")
	client := newTestClient(t, server)

	games, err := client.GamesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.Empty(t, *lastBody, "no request should reach the server")
}

func TestQueryErrorsMapToDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "bad request maps to validation",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var validation errs.Validation
				assert.ErrorAs(t, err, &validation)
			},
		},
		{
			name:   "unauthorized maps to service unavailable",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var unavailable errs.ServiceUnavailable
				assert.ErrorAs(t, err, &unavailable)
			},
		},
		{
			name:   "server error maps to service unavailable",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var unavailable errs.ServiceUnavailable
				assert.ErrorAs(t, err, &unavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.status, `[{"title":"boom","status":0}]`)
			client := newTestClient(t, server)

			_, err := client.TopGames(context.Background(), 1)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestQueryMalformedResponse(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, "{not json")
	client := newTestClient(t, server)

	_, err := client.TopGames(context.Background(), 1)

	var unexpected errs.Unexpected
	assert.ErrorAs(t, err, &unexpected)
}
