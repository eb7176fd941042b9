// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/covida/game-catalog-service/internal/domain/model"
)

// GameCatalog defines the interface to the external game metadata service.
// The catalog is an opaque remote oracle: result ordering and search
// relevance are its business.
type GameCatalog interface {
	// TopGames retrieves the limit most-followed games. A limit outside
	// (0, MaxCatalogLimit] yields Validation, never a partial list.
	TopGames(ctx context.Context, limit int) ([]model.GameDetail, error)

	// SearchGames retrieves up to limit games matching the query by name.
	// An empty match list is a valid, non-error result.
	SearchGames(ctx context.Context, query string, limit int) ([]model.GameDetail, error)

	// GamesByIDs batch-fetches details for the given ids, sorted by total
	// rating descending. An empty id set yields an empty slice without a
	// remote call.
	GamesByIDs(ctx context.Context, ids []int64) ([]model.GameDetail, error)

	// IsReady checks if the catalog endpoint is reachable
	IsReady(ctx context.Context) error
}
