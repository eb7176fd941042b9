// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/pkg/errors"
)

// CreateGroup creates a new empty group
func (sw *catalogWriterOrchestrator) CreateGroup(ctx context.Context, name, description string) (*model.Group, error) {
	slog.DebugContext(ctx, "executing create group use case",
		"group_name", name,
	)

	group, err := sw.groupWriter.CreateGroup(ctx, name, description)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create group",
			"error", err,
			"group_name", name,
		)
		return nil, err
	}

	slog.DebugContext(ctx, "group created successfully",
		"group_uid", group.UID,
		"group_name", group.Name,
	)

	return group, nil
}

// UpdateGroup edits name and/or description and propagates a rename to the
// denormalized copies in user records
func (sw *catalogWriterOrchestrator) UpdateGroup(ctx context.Context, ref string, update model.GroupUpdate) (*model.Group, error) {
	slog.DebugContext(ctx, "executing update group use case",
		"group_ref", ref,
	)

	group, err := sw.groupWriter.UpdateGroup(ctx, ref, update)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update group",
			"error", err,
			"group_ref", ref,
		)
		return nil, err
	}

	// User records hold a cached copy of the group name; a stale copy is
	// repaired on the next rename, so sync failures do not undo the rename
	if update.Name != nil && sw.userWriter != nil {
		if err := sw.userWriter.RenameGroupForAllUsers(ctx, group.Ref().ID, group.Name); err != nil {
			slog.WarnContext(ctx, "failed to propagate group rename to user records",
				"error", err,
				"group_ref", ref,
				"group_name", group.Name,
			)
		}
	}

	slog.DebugContext(ctx, "group updated successfully",
		"group_uid", group.UID,
		"group_name", group.Name,
	)

	return group, nil
}

// DeleteGroup removes the group and drops its reference from every user
func (sw *catalogWriterOrchestrator) DeleteGroup(ctx context.Context, ref string) (*model.Group, error) {
	slog.DebugContext(ctx, "executing delete group use case",
		"group_ref", ref,
	)

	group, err := sw.groupWriter.DeleteGroup(ctx, ref)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete group",
			"error", err,
			"group_ref", ref,
		)
		return nil, err
	}

	if sw.userWriter != nil {
		if err := sw.userWriter.RemoveGroupFromAllUsers(ctx, group.Ref().ID); err != nil {
			slog.WarnContext(ctx, "failed to drop deleted group from user records",
				"error", err,
				"group_ref", ref,
			)
		}
	}

	slog.DebugContext(ctx, "group deleted successfully",
		"group_uid", group.UID,
		"group_name", group.Name,
	)

	return group, nil
}

// AddGameToGroup resolves the name against the external catalog and stores
// the best match in the group
func (sw *catalogWriterOrchestrator) AddGameToGroup(ctx context.Context, ref, gameName string) (*model.Group, *model.GameDetail, error) {
	slog.DebugContext(ctx, "executing add game to group use case",
		"group_ref", ref,
		"game_name", gameName,
	)

	// Single-result search; the catalog's relevance order picks the match
	matches, err := sw.gameCatalog.SearchGames(ctx, gameName, 1)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search game for group",
			"error", err,
			"game_name", gameName,
		)
		return nil, nil, err
	}
	if len(matches) == 0 {
		return nil, nil, errors.NewNotFound(fmt.Sprintf("game not found: %s", gameName))
	}
	detail := matches[0]

	group, err := sw.groupWriter.AddGame(ctx, ref, detail.Ref())
	if err != nil {
		slog.ErrorContext(ctx, "failed to add game to group",
			"error", err,
			"group_ref", ref,
			"game_id", detail.ID,
		)
		// The detail is kept so callers can tell a missing group apart
		// from an unmatched game name
		return nil, &detail, err
	}

	slog.DebugContext(ctx, "game added to group successfully",
		"group_uid", group.UID,
		"game_id", detail.ID,
		"game_name", detail.Name,
	)

	return group, &detail, nil
}

// RemoveGameFromGroup removes the game with the given id from the group
func (sw *catalogWriterOrchestrator) RemoveGameFromGroup(ctx context.Context, ref string, gameID int64) (*model.Group, *model.Game, error) {
	slog.DebugContext(ctx, "executing remove game from group use case",
		"group_ref", ref,
		"game_id", gameID,
	)

	group, removed, err := sw.groupWriter.RemoveGame(ctx, ref, gameID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to remove game from group",
			"error", err,
			"group_ref", ref,
			"game_id", gameID,
		)
		return nil, nil, err
	}

	if removed == nil {
		slog.DebugContext(ctx, "game was not present in group",
			"group_ref", ref,
			"game_id", gameID,
		)
	}

	return group, removed, nil
}
