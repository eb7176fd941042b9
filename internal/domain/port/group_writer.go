// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/covida/game-catalog-service/internal/domain/model"
)

// GroupWriter defines the interface for group write operations.
//
// Mutations are read-modify-write over the whole affected record. A failed
// write leaves prior persisted state unchanged. Concurrent writers against
// the same group are last-writer-wins; the repository offers no
// cross-operation transactions.
type GroupWriter interface {
	// CreateGroup creates a group with no games. An empty name yields
	// Validation; a case-insensitive name collision yields Conflict.
	CreateGroup(ctx context.Context, name, description string) (*model.Group, error)

	// UpdateGroup edits name and/or description; nil fields retain prior
	// values. Renaming onto a different existing group yields Conflict.
	// Renaming a group to its own current name is a no-op success.
	UpdateGroup(ctx context.Context, ref string, update model.GroupUpdate) (*model.Group, error)

	// DeleteGroup removes and returns the group.
	DeleteGroup(ctx context.Context, ref string) (*model.Group, error)

	// AddGame upserts a game reference by id; an existing entry with the
	// same id is replaced rather than duplicated.
	AddGame(ctx context.Context, ref string, game model.Game) (*model.Group, error)

	// RemoveGame removes the game with the given id. A missing group yields
	// (nil, nil, NotFound); a found group without the game yields
	// (group, nil, nil).
	RemoveGame(ctx context.Context, ref string, gameID int64) (*model.Group, *model.Game, error)
}
