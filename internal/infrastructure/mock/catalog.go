// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	"github.com/covida/game-catalog-service/pkg/constants"
	"github.com/covida/game-catalog-service/pkg/errors"
)

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }

// MockGameCatalog provides an in-memory implementation of the external game
// catalog. Top ordering is by follows descending; batch lookups sort by
// rating descending, matching the remote catalog's contract.
type MockGameCatalog struct {
	games map[int64]model.GameDetail
	// readyErr, when set, is returned by IsReady and every query to
	// simulate an unreachable catalog.
	readyErr error
	mu       sync.RWMutex
}

// NewMockGameCatalog creates a mock catalog preloaded with sample games.
func NewMockGameCatalog() *MockGameCatalog {
	samples := []model.GameDetail{
		{ID: 1942, Name: "The Witcher 3: Wild Hunt", Summary: "Open world RPG", TotalRating: float64Ptr(94.5), Follows: int64Ptr(1500)},
		{ID: 732, Name: "Grand Theft Auto V", Summary: "Open world action", TotalRating: float64Ptr(91.2), Follows: int64Ptr(1300)},
		{ID: 11, Name: "Celeste", Summary: "Precision platformer", TotalRating: float64Ptr(88.7), Follows: int64Ptr(400)},
		{ID: 7, Name: "Portal", Summary: "Puzzle classic", TotalRating: float64Ptr(89.9), Follows: int64Ptr(900)},
		{ID: 8, Name: "Portal 2", Summary: "Puzzle sequel", TotalRating: float64Ptr(92.4), Follows: int64Ptr(1100)},
		{ID: 500, Name: "Obscure Prototype", Summary: "Unrated experiment", Follows: int64Ptr(5)},
	}

	catalog := &MockGameCatalog{games: make(map[int64]model.GameDetail, len(samples))}
	for _, game := range samples {
		catalog.games[game.ID] = game
	}
	return catalog
}

// SetGame adds or replaces a game in the catalog.
func (c *MockGameCatalog) SetGame(game model.GameDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[game.ID] = game
}

// SetReadyError makes the catalog report the given error on every call.
func (c *MockGameCatalog) SetReadyError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyErr = err
}

func validateLimit(limit int) error {
	if limit <= 0 || limit > constants.MaxCatalogLimit {
		return errors.NewValidation(fmt.Sprintf("limit must be within (0, %d]", constants.MaxCatalogLimit))
	}
	return nil
}

// TopGames retrieves the limit most-followed games
func (c *MockGameCatalog) TopGames(ctx context.Context, limit int) ([]model.GameDetail, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.readyErr != nil {
		return nil, c.readyErr
	}

	games := make([]model.GameDetail, 0, len(c.games))
	for _, game := range c.games {
		if game.Follows != nil {
			games = append(games, game)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return *games[i].Follows > *games[j].Follows
	})

	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

// SearchGames retrieves up to limit games whose name contains the query
func (c *MockGameCatalog) SearchGames(ctx context.Context, query string, limit int) ([]model.GameDetail, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.readyErr != nil {
		return nil, c.readyErr
	}

	needle := strings.ToLower(query)
	games := make([]model.GameDetail, 0)
	for _, game := range c.games {
		if strings.Contains(strings.ToLower(game.Name), needle) {
			games = append(games, game)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})

	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

// GamesByIDs batch-fetches details for the given ids, rating descending.
// Unknown ids are silently absent from the result.
func (c *MockGameCatalog) GamesByIDs(ctx context.Context, ids []int64) ([]model.GameDetail, error) {
	if len(ids) == 0 {
		return []model.GameDetail{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.readyErr != nil {
		return nil, c.readyErr
	}

	games := make([]model.GameDetail, 0, len(ids))
	for _, id := range ids {
		if game, ok := c.games[id]; ok {
			games = append(games, game)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		ri, rj := games[i].TotalRating, games[j].TotalRating
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri > *rj
		}
	})
	return games, nil
}

// IsReady reports the configured readiness error, if any
func (c *MockGameCatalog) IsReady(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.readyErr
}

var _ port.GameCatalog = (*MockGameCatalog)(nil)
