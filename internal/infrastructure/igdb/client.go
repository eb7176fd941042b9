// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package igdb provides the external game catalog client. Queries use the
// IGDB v4 Apicalypse text grammar; authentication is a Twitch OAuth2
// client-credentials token plus the Client-ID header.
package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	"github.com/covida/game-catalog-service/pkg/constants"
	errs "github.com/covida/game-catalog-service/pkg/errors"
	"github.com/covida/game-catalog-service/pkg/httpclient"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// commonBodyFields selects the detail fields every query needs and pins
	// results to main games (category 0).
	commonBodyFields = "fields name, total_rating, summary, follows; where category = 0;"

	topGamesClause   = "sort follows desc; where follows != null;"
	gamesByIDsClause = "sort total_rating desc; where id ="
)

// authRoundTripper injects the bearer token and Client-ID header on every
// request. Token caching and refresh are the token source's business.
type authRoundTripper struct {
	clientID    string
	tokenSource oauth2.TokenSource
}

func (rt *authRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	token, err := rt.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain catalog token: %w", err)
	}

	req.Header.Set("Client-ID", rt.clientID)
	token.SetAuthHeader(req)
	return next(req)
}

// Client handles all IGDB API operations
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// NewClient creates a new IGDB client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client id and client secret are required for the IGDB client")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultConfig().TokenURL
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	client := &Client{
		config: cfg,
		httpClient: httpclient.NewClient(httpclient.Config{
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
			RetryBackoff: true,
		}),
	}
	client.httpClient.AddRoundTripper(&authRoundTripper{
		clientID:    cfg.ClientID,
		tokenSource: creds.TokenSource(context.Background()),
	})

	return client, nil
}

// TopGames retrieves the limit most-followed games
func (c *Client) TopGames(ctx context.Context, limit int) ([]model.GameDetail, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("%s %s limit %d;", commonBodyFields, topGamesClause, limit)
	return c.queryGames(ctx, body)
}

// SearchGames retrieves up to limit games matching the query by name
func (c *Client) SearchGames(ctx context.Context, query string, limit int) ([]model.GameDetail, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("%s search %q; limit %d;", commonBodyFields, query, limit)
	return c.queryGames(ctx, body)
}

// GamesByIDs batch-fetches details for the given ids, rating descending
func (c *Client) GamesByIDs(ctx context.Context, ids []int64) ([]model.GameDetail, error) {
	if len(ids) == 0 {
		return []model.GameDetail{}, nil
	}

	formatted := make([]string, 0, len(ids))
	for _, id := range ids {
		formatted = append(formatted, fmt.Sprintf("%d", id))
	}

	body := fmt.Sprintf("%s %s (%s);", commonBodyFields, gamesByIDsClause, strings.Join(formatted, ", "))
	return c.queryGames(ctx, body)
}

// queryGames POSTs an Apicalypse body to the games endpoint and maps the result
func (c *Client) queryGames(ctx context.Context, body string) ([]model.GameDetail, error) {
	reqURL := c.config.BaseURL + "/games"

	slog.DebugContext(ctx, "querying IGDB", "url", reqURL, "body", body)

	resp, err := c.httpClient.Request(ctx, http.MethodPost, reqURL, strings.NewReader(body), map[string]string{
		"Content-Type": "text/plain",
	})
	if err != nil {
		return nil, mapHTTPError(ctx, err)
	}

	var objects []gameObject
	if err := json.Unmarshal(resp.Body, &objects); err != nil {
		// IGDB reports query errors as an array of error objects
		var apiErrors []errorObject
		if jsonErr := json.Unmarshal(resp.Body, &apiErrors); jsonErr == nil && len(apiErrors) > 0 {
			slog.WarnContext(ctx, "IGDB query error",
				"title", apiErrors[0].Title,
				"cause", apiErrors[0].Cause,
			)
			return nil, errs.NewValidation(apiErrors[0].Title)
		}
		return nil, errs.NewUnexpected("failed to parse IGDB response", err)
	}

	slog.DebugContext(ctx, "IGDB query succeeded", "count", len(objects))
	return mapGameDetails(objects), nil
}

func validateLimit(limit int) error {
	if limit <= 0 || limit > constants.MaxCatalogLimit {
		return errs.NewValidation(fmt.Sprintf("limit must be within (0, %d]", constants.MaxCatalogLimit))
	}
	return nil
}

// IsReady checks if the client is configured and the catalog is reachable
func (c *Client) IsReady(ctx context.Context) error {
	if c.httpClient == nil {
		return errs.NewServiceUnavailable("IGDB client is not initialized")
	}
	// A one-result query exercises auth and the endpoint in a single call
	if _, err := c.TopGames(ctx, 1); err != nil {
		return errs.NewServiceUnavailable("IGDB catalog is not reachable", err)
	}
	return nil
}

var _ port.GameCatalog = (*Client)(nil)
