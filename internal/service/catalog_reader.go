// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package service implements the orchestration layer that joins the group
// repository with the external game catalog.
package service

import (
	"context"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
)

// CatalogReader defines the composite interface for all read operations.
type CatalogReader interface {
	// GetTopGames retrieves the most-followed games from the external
	// catalog. A zero limit applies the default.
	GetTopGames(ctx context.Context, limit int) ([]model.GameDetail, error)

	// SearchGames retrieves games matching the name from the external
	// catalog. A zero limit applies the default; an empty result is valid.
	SearchGames(ctx context.Context, name string, limit int) ([]model.GameDetail, error)

	// GetGameByID retrieves the details of a single game. A non-positive id
	// yields NotFound without a remote call.
	GetGameByID(ctx context.Context, id int64) (*model.GameDetail, error)

	// GetGroups retrieves the summary view of all groups, games stripped.
	GetGroups(ctx context.Context) ([]model.GroupSummary, error)

	// GetGroup retrieves a single group with its stored game references.
	GetGroup(ctx context.Context, ref string) (*model.Group, error)

	// ListGroupGames retrieves live details for a group's stored games,
	// filtered to the inclusive rating range. Nil bounds default to 0 and
	// 100. A range with max below min yields the group, no details, and a
	// Validation error.
	ListGroupGames(ctx context.Context, ref string, minRating, maxRating *float64) (*model.Group, []model.GameDetail, error)

	// IsReady checks all underlying dependencies
	IsReady(ctx context.Context) error
}

// catalogReaderOrchestratorOption defines a function type for setting options on the reader orchestrator
type catalogReaderOrchestratorOption func(*catalogReaderOrchestrator)

// WithGroupReader sets the group repository used for read operations
func WithGroupReader(reader port.GroupReaderWriter) catalogReaderOrchestratorOption {
	return func(r *catalogReaderOrchestrator) {
		r.groupReader = reader
	}
}

// WithGameCatalog sets the external game catalog client
func WithGameCatalog(catalog port.GameCatalog) catalogReaderOrchestratorOption {
	return func(r *catalogReaderOrchestrator) {
		r.gameCatalog = catalog
	}
}

// catalogReaderOrchestrator orchestrates reads across the group repository
// and the external catalog
type catalogReaderOrchestrator struct {
	groupReader port.GroupReaderWriter
	gameCatalog port.GameCatalog
}

// NewCatalogReaderOrchestrator creates a new reader orchestrator using the option pattern
func NewCatalogReaderOrchestrator(opts ...catalogReaderOrchestratorOption) CatalogReader {
	rc := &catalogReaderOrchestrator{}
	for _, opt := range opts {
		opt(rc)
	}

	return rc
}

// IsReady checks the repository and the catalog client
func (sr *catalogReaderOrchestrator) IsReady(ctx context.Context) error {
	if err := sr.groupReader.IsReady(ctx); err != nil {
		return err
	}
	return sr.gameCatalog.IsReady(ctx)
}
