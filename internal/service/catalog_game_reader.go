// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/pkg/constants"
	"github.com/covida/game-catalog-service/pkg/errors"
)

// GetTopGames retrieves the most-followed games from the external catalog
func (sr *catalogReaderOrchestrator) GetTopGames(ctx context.Context, limit int) ([]model.GameDetail, error) {
	if limit == 0 {
		limit = constants.DefaultCatalogLimit
	}

	slog.DebugContext(ctx, "executing get top games use case",
		"limit", limit,
	)

	games, err := sr.gameCatalog.TopGames(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get top games",
			"error", err,
			"limit", limit,
		)
		return nil, err
	}

	slog.DebugContext(ctx, "top games retrieved successfully",
		"count", len(games),
	)

	return games, nil
}

// SearchGames retrieves games matching the name from the external catalog
func (sr *catalogReaderOrchestrator) SearchGames(ctx context.Context, name string, limit int) ([]model.GameDetail, error) {
	if limit == 0 {
		limit = constants.DefaultCatalogLimit
	}

	slog.DebugContext(ctx, "executing search games use case",
		"game_name", name,
		"limit", limit,
	)

	games, err := sr.gameCatalog.SearchGames(ctx, name, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search games",
			"error", err,
			"game_name", name,
		)
		return nil, err
	}

	slog.DebugContext(ctx, "game search completed",
		"game_name", name,
		"count", len(games),
	)

	return games, nil
}

// GetGameByID retrieves the details of a single game by catalog id
func (sr *catalogReaderOrchestrator) GetGameByID(ctx context.Context, id int64) (*model.GameDetail, error) {
	slog.DebugContext(ctx, "executing get game by id use case",
		"game_id", id,
	)

	// Catalog ids are positive; skip the remote round trip otherwise
	if id <= 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("game not found: %d", id))
	}

	games, err := sr.gameCatalog.GamesByIDs(ctx, []int64{id})
	if err != nil {
		slog.ErrorContext(ctx, "failed to get game by id",
			"error", err,
			"game_id", id,
		)
		return nil, err
	}

	if len(games) == 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("game not found: %d", id))
	}

	return &games[0], nil
}
