// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/infrastructure/mock"
	"github.com/covida/game-catalog-service/pkg/errors"
)

func stringPtr(s string) *string { return &s }

func newTestWriter() (CatalogWriter, *mock.MockRepository, *mock.MockGameCatalog) {
	repo := mock.NewMockRepositoryWithSampleData()
	catalog := mock.NewMockGameCatalog()
	writer := NewCatalogWriterOrchestrator(
		WithGroupWriter(repo),
		WithWriterGameCatalog(catalog),
		WithUserWriter(repo),
	)
	return writer, repo, catalog
}

func TestCreateGroup(t *testing.T) {
	writer, repo, _ := newTestWriter()
	ctx := context.Background()

	group, err := writer.CreateGroup(ctx, "Weekend Picks", "Short sessions")
	require.NoError(t, err)
	assert.NotEmpty(t, group.UID)
	assert.Equal(t, "Weekend Picks", group.Name)
	assert.Empty(t, group.Games)

	stored, err := repo.GetGroup(ctx, group.UID)
	require.NoError(t, err)
	assert.Equal(t, "Weekend Picks", stored.Name)
}

func TestCreateGroupDuplicateName(t *testing.T) {
	writer, _, _ := newTestWriter()

	// Sample data already holds "Favorites"; comparison is case-insensitive
	_, err := writer.CreateGroup(context.Background(), "FAVORITES", "")

	var conflict errors.Conflict
	assert.ErrorAs(t, err, &conflict)
}

func TestCreateGroupEmptyName(t *testing.T) {
	writer, _, _ := newTestWriter()

	_, err := writer.CreateGroup(context.Background(), "   ", "")

	var validation errors.Validation
	assert.ErrorAs(t, err, &validation)
}

func TestUpdateGroupRenamePropagatesToUsers(t *testing.T) {
	writer, repo, _ := newTestWriter()
	ctx := context.Background()

	group, err := writer.UpdateGroup(ctx, "group-1", model.GroupUpdate{
		Name: stringPtr("All Stars"),
	})
	require.NoError(t, err)
	assert.Equal(t, "All Stars", group.Name)

	// Both sample users reference group-1; their cached names must follow
	for _, username := range []string{"alice", "bob"} {
		user, err := repo.GetUser(ctx, username)
		require.NoError(t, err)
		require.True(t, user.HasGroup("group-1"))
		for _, ref := range user.Groups {
			if ref.ID == "group-1" {
				assert.Equal(t, "All Stars", ref.Name)
			}
		}
	}
}

func TestUpdateGroupDescriptionOnlyKeepsName(t *testing.T) {
	writer, _, _ := newTestWriter()

	group, err := writer.UpdateGroup(context.Background(), "group-2", model.GroupUpdate{
		Description: stringPtr("Updated notes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Backlog", group.Name)
	assert.Equal(t, "Updated notes", group.Description)
}

func TestUpdateGroupRenameConflict(t *testing.T) {
	writer, _, _ := newTestWriter()

	_, err := writer.UpdateGroup(context.Background(), "group-2", model.GroupUpdate{
		Name: stringPtr("Favorites"),
	})

	var conflict errors.Conflict
	assert.ErrorAs(t, err, &conflict)
}

func TestUpdateGroupRenameToOwnName(t *testing.T) {
	writer, _, _ := newTestWriter()

	// A case-variant of the group's own name is not a conflict
	group, err := writer.UpdateGroup(context.Background(), "group-1", model.GroupUpdate{
		Name: stringPtr("FAVORITES"),
	})
	require.NoError(t, err)
	assert.Equal(t, "FAVORITES", group.Name)
}

func TestDeleteGroupDropsUserReferences(t *testing.T) {
	writer, repo, _ := newTestWriter()
	ctx := context.Background()

	group, err := writer.DeleteGroup(ctx, "group-1")
	require.NoError(t, err)
	assert.Equal(t, "Favorites", group.Name)

	_, err = repo.GetGroup(ctx, "group-1")
	var notFound errors.NotFound
	assert.ErrorAs(t, err, &notFound)

	for _, username := range []string{"alice", "bob"} {
		user, err := repo.GetUser(ctx, username)
		require.NoError(t, err)
		assert.False(t, user.HasGroup("group-1"))
	}

	// Unrelated references survive
	alice, err := repo.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, alice.HasGroup("group-2"))
}

func TestDeleteGroupTwice(t *testing.T) {
	writer, _, _ := newTestWriter()
	ctx := context.Background()

	_, err := writer.DeleteGroup(ctx, "group-3")
	require.NoError(t, err)

	_, err = writer.DeleteGroup(ctx, "group-3")
	var notFound errors.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestAddGameToGroup(t *testing.T) {
	writer, repo, _ := newTestWriter()
	ctx := context.Background()

	group, detail, err := writer.AddGameToGroup(ctx, "group-2", "Celeste")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, int64(11), detail.ID)
	require.NotNil(t, group)
	require.Len(t, group.Games, 1)
	assert.Equal(t, model.Game{ID: 11, Name: "Celeste"}, group.Games[0])

	// Re-adding the same game replaces rather than duplicates
	group, _, err = writer.AddGameToGroup(ctx, "group-2", "Celeste")
	require.NoError(t, err)
	assert.Len(t, group.Games, 1)

	stored, err := repo.GetGroupGames(ctx, "group-2")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAddGameToGroupGameNotFound(t *testing.T) {
	writer, _, _ := newTestWriter()

	group, detail, err := writer.AddGameToGroup(context.Background(), "group-2", "no such game")
	assert.Nil(t, group)
	assert.Nil(t, detail)

	var notFound errors.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestAddGameToGroupGroupNotFound(t *testing.T) {
	writer, _, _ := newTestWriter()

	group, detail, err := writer.AddGameToGroup(context.Background(), "no-such-group", "Celeste")
	assert.Nil(t, group)

	// The resolved detail is kept so callers can tell the two NotFound
	// cases apart
	require.NotNil(t, detail)
	assert.Equal(t, int64(11), detail.ID)

	var notFound errors.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestRemoveGameFromGroup(t *testing.T) {
	writer, _, _ := newTestWriter()
	ctx := context.Background()

	group, removed, err := writer.RemoveGameFromGroup(ctx, "group-1", 1942)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "The Witcher 3: Wild Hunt", removed.Name)
	assert.Len(t, group.Games, 1)

	// Removing again: group found, game absent, no error
	group, removed, err = writer.RemoveGameFromGroup(ctx, "group-1", 1942)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Nil(t, removed)
}

func TestRemoveGameFromGroupMissingGroup(t *testing.T) {
	writer, _, _ := newTestWriter()

	group, removed, err := writer.RemoveGameFromGroup(context.Background(), "no-such-group", 1942)
	assert.Nil(t, group)
	assert.Nil(t, removed)

	var notFound errors.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestAddGameToGroupCatalogUnavailable(t *testing.T) {
	writer, _, catalog := newTestWriter()
	catalog.SetReadyError(errors.NewServiceUnavailable("catalog offline"))

	_, _, err := writer.AddGameToGroup(context.Background(), "group-2", "Celeste")

	var unavailable errors.ServiceUnavailable
	assert.ErrorAs(t, err, &unavailable)
}
