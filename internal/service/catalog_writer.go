// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
)

// CatalogWriter defines the composite interface for all write operations.
type CatalogWriter interface {
	// CreateGroup creates a group with no games.
	CreateGroup(ctx context.Context, name, description string) (*model.Group, error)

	// UpdateGroup edits name and/or description. A successful rename is
	// propagated to the denormalized copies in user records.
	UpdateGroup(ctx context.Context, ref string, update model.GroupUpdate) (*model.Group, error)

	// DeleteGroup removes the group and drops its reference from every user.
	DeleteGroup(ctx context.Context, ref string) (*model.Group, error)

	// AddGameToGroup resolves the name against the external catalog and
	// stores the best match in the group. An unmatched name yields
	// (nil, nil, NotFound); a matched name with a missing group yields
	// (nil, detail, NotFound) so callers can tell the two apart.
	AddGameToGroup(ctx context.Context, ref, gameName string) (*model.Group, *model.GameDetail, error)

	// RemoveGameFromGroup removes the game with the given id. A found group
	// without the game yields (group, nil, nil).
	RemoveGameFromGroup(ctx context.Context, ref string, gameID int64) (*model.Group, *model.Game, error)
}

// catalogWriterOrchestratorOption defines a function type for setting options on the writer orchestrator
type catalogWriterOrchestratorOption func(*catalogWriterOrchestrator)

// WithGroupWriter sets the group repository used for write operations
func WithGroupWriter(writer port.GroupReaderWriter) catalogWriterOrchestratorOption {
	return func(w *catalogWriterOrchestrator) {
		w.groupWriter = writer
	}
}

// WithWriterGameCatalog sets the external game catalog client for the writer
func WithWriterGameCatalog(catalog port.GameCatalog) catalogWriterOrchestratorOption {
	return func(w *catalogWriterOrchestrator) {
		w.gameCatalog = catalog
	}
}

// WithUserWriter sets the user repository for denormalized group reference
// sync (may be nil when user accounts are disabled)
func WithUserWriter(users port.UserWriter) catalogWriterOrchestratorOption {
	return func(w *catalogWriterOrchestrator) {
		w.userWriter = users
	}
}

// catalogWriterOrchestrator orchestrates the group writing process
type catalogWriterOrchestrator struct {
	groupWriter port.GroupReaderWriter
	gameCatalog port.GameCatalog
	userWriter  port.UserWriter // May be nil when user accounts are disabled
}

// NewCatalogWriterOrchestrator creates a new writer orchestrator using the option pattern
func NewCatalogWriterOrchestrator(opts ...catalogWriterOrchestratorOption) CatalogWriter {
	uc := &catalogWriterOrchestrator{}
	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
