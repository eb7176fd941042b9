// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/covida/game-catalog-service/internal/domain/model"
)

// GroupReader defines the interface for group read operations.
//
// The ref argument addresses a group by name in the flat store and by UID in
// the indexed store; name lookup is case-insensitive. Implementations report
// a missing group with errors.NotFound, never a nil-nil pair.
type GroupReader interface {
	// GetGroups retrieves all groups in persisted order. An empty store
	// yields an empty slice, not an error.
	GetGroups(ctx context.Context) ([]*model.Group, error)

	// GetGroup retrieves a single group by ref.
	GetGroup(ctx context.Context, ref string) (*model.Group, error)

	// GetGroupGames retrieves the stored game references of a group. A group
	// with no games yields an empty slice, distinct from NotFound.
	GetGroupGames(ctx context.Context, ref string) ([]model.Game, error)
}
