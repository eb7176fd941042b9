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

// GetGroups retrieves the summary view of all groups
func (sr *catalogReaderOrchestrator) GetGroups(ctx context.Context) ([]model.GroupSummary, error) {
	slog.DebugContext(ctx, "executing get groups use case")

	groups, err := sr.groupReader.GetGroups(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get groups",
			"error", err,
		)
		return nil, err
	}

	summaries := make([]model.GroupSummary, 0, len(groups))
	for _, group := range groups {
		summaries = append(summaries, group.Summary())
	}

	slog.DebugContext(ctx, "groups retrieved successfully",
		"count", len(summaries),
	)

	return summaries, nil
}

// GetGroup retrieves a single group with its stored game references
func (sr *catalogReaderOrchestrator) GetGroup(ctx context.Context, ref string) (*model.Group, error) {
	slog.DebugContext(ctx, "executing get group use case",
		"group_ref", ref,
	)

	group, err := sr.groupReader.GetGroup(ctx, ref)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get group",
			"error", err,
			"group_ref", ref,
		)
		return nil, err
	}

	return group, nil
}

// ListGroupGames retrieves live catalog details for a group's stored games,
// filtered to the inclusive rating range
func (sr *catalogReaderOrchestrator) ListGroupGames(ctx context.Context, ref string, minRating, maxRating *float64) (*model.Group, []model.GameDetail, error) {
	min := float64(constants.MinRatingDefault)
	if minRating != nil {
		min = *minRating
	}
	max := float64(constants.MaxRatingDefault)
	if maxRating != nil {
		max = *maxRating
	}

	slog.DebugContext(ctx, "executing list group games use case",
		"group_ref", ref,
		"min_rating", min,
		"max_rating", max,
	)

	group, err := sr.groupReader.GetGroup(ctx, ref)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get group for game listing",
			"error", err,
			"group_ref", ref,
		)
		return nil, nil, err
	}

	// The group is returned alongside the error so callers can tell a bad
	// range apart from a missing group
	if max < min {
		return group, nil, errors.NewValidation(
			fmt.Sprintf("invalid rating range: max %v is below min %v", max, min))
	}

	details, err := sr.gameCatalog.GamesByIDs(ctx, group.GameIDs())
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch game details for group",
			"error", err,
			"group_ref", ref,
		)
		return nil, nil, err
	}

	// Keep the catalog's rating-descending order; unrated games are retained
	filtered := make([]model.GameDetail, 0, len(details))
	for _, detail := range details {
		if detail.RatingWithin(min, max) {
			filtered = append(filtered, detail)
		}
	}

	slog.DebugContext(ctx, "group games listed successfully",
		"group_ref", ref,
		"stored", len(group.Games),
		"returned", len(filtered),
	)

	return group, filtered, nil
}
