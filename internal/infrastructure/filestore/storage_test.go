// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	errs "github.com/covida/game-catalog-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, groups []*model.Group) (port.GroupReaderWriter, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "groups.json")
	if groups != nil {
		data, err := json.MarshalIndent(groups, "", "\t")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o600))
	}

	return NewStorage(Config{Path: path}), path
}

func sampleGroups() []*model.Group {
	return []*model.Group{
		{
			Name:        "Favorite",
			Description: "Group for our favorite games",
			Games: []model.Game{
				{ID: 17269, Name: "Roblox"},
				{ID: 1905, Name: "Fortnite"},
				{ID: 135400, Name: "Minecraft"},
			},
		},
		{
			Name:        "eSports",
			Description: "Professional competitive games",
			Games: []model.Game{
				{ID: 1372, Name: "Counter-Strike: Global Offensive"},
				{ID: 126459, Name: "Valorant"},
			},
		},
		{
			Name:        "ToBeEdited",
			Description: "Group to be edited in tests",
			Games:       []model.Game{},
		},
	}
}

func TestGetGroupsEmptyStore(t *testing.T) {
	store, _ := seedStore(t, nil)

	groups, err := store.GetGroups(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGetGroupCaseInsensitive(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	for _, ref := range []string{"Favorite", "favorite", "FAVORITE"} {
		group, err := store.GetGroup(context.Background(), ref)
		require.NoError(t, err, "lookup by %q", ref)
		assert.Equal(t, "Favorite", group.Name)
		assert.Len(t, group.Games, 3)
	}
}

func TestGetGroupNotFound(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	_, err := store.GetGroup(context.Background(), "I don't exist")
	var notFound errs.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestCreateGroup(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())
	ctx := context.Background()

	group, err := store.CreateGroup(ctx, "Indie", "Independent gems")
	require.NoError(t, err)
	assert.Equal(t, "Indie", group.Name)
	assert.Equal(t, "Independent gems", group.Description)
	assert.Empty(t, group.Games)

	groups, err := store.GetGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 4)
	assert.Equal(t, "Indie", groups[3].Name, "new groups append in persisted order")
}

func TestCreateGroupEmptyNameRejected(t *testing.T) {
	store, path := seedStore(t, sampleGroups())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = store.CreateGroup(context.Background(), "", "d")
	var validation errs.Validation
	assert.True(t, errors.As(err, &validation))

	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, before, after, "rejected create must not mutate the store")
}

func TestCreateGroupDuplicateNameConflicts(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	_, err := store.CreateGroup(context.Background(), "FAVORITE", "dup")
	var conflict errs.Conflict
	assert.True(t, errors.As(err, &conflict))
}

func TestUpdateGroup(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())
	ctx := context.Background()

	newName := "Edited"
	newDescription := "Edited description"
	group, err := store.UpdateGroup(ctx, "ToBeEdited", model.GroupUpdate{
		Name:        &newName,
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", group.Name)
	assert.Equal(t, "Edited description", group.Description)

	_, err = store.GetGroup(ctx, "ToBeEdited")
	var notFound errs.NotFound
	assert.True(t, errors.As(err, &notFound), "old name no longer resolves")

	reloaded, err := store.GetGroup(ctx, "Edited")
	require.NoError(t, err)
	assert.Equal(t, "Edited description", reloaded.Description)
}

func TestUpdateGroupPartialFieldsRetainValues(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	newDescription := "Only the description changes"
	group, err := store.UpdateGroup(context.Background(), "Favorite", model.GroupUpdate{
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, "Favorite", group.Name)
	assert.Equal(t, "Only the description changes", group.Description)
	assert.Len(t, group.Games, 3, "games survive an edit")
}

func TestUpdateGroupRenameConflict(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	collision := "ESPORTS"
	_, err := store.UpdateGroup(context.Background(), "Favorite", model.GroupUpdate{Name: &collision})
	var conflict errs.Conflict
	assert.True(t, errors.As(err, &conflict))
}

func TestUpdateGroupRenameToOwnNameIsNoOp(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	ownName := "favorite"
	group, err := store.UpdateGroup(context.Background(), "Favorite", model.GroupUpdate{Name: &ownName})
	require.NoError(t, err)
	assert.Equal(t, "favorite", group.Name, "case change of own name is allowed")
}

func TestDeleteGroup(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())
	ctx := context.Background()

	group, err := store.DeleteGroup(ctx, "eSports")
	require.NoError(t, err)
	assert.Equal(t, "eSports", group.Name)

	groups, err := store.GetGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	_, err = store.DeleteGroup(ctx, "eSports")
	var notFound errs.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestGetGroupGames(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())
	ctx := context.Background()

	games, err := store.GetGroupGames(ctx, "Favorite")
	require.NoError(t, err)
	assert.Len(t, games, 3)

	games, err = store.GetGroupGames(ctx, "ToBeEdited")
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games, "group with no games yields empty slice, not NotFound")

	_, err = store.GetGroupGames(ctx, "missing")
	var notFound errs.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestAddGameUpserts(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())
	ctx := context.Background()

	group, err := store.AddGame(ctx, "Favorite", model.Game{ID: 1905, Name: "Fortnite (2017)"})
	require.NoError(t, err)
	require.Len(t, group.Games, 3, "same id replaces, never duplicates")
	assert.Equal(t, "Fortnite (2017)", group.Games[1].Name, "second call's name wins in place")

	group, err = store.AddGame(ctx, "Favorite", model.Game{ID: 115, Name: "League of Legends"})
	require.NoError(t, err)
	assert.Len(t, group.Games, 4)
	assert.Equal(t, int64(115), group.Games[3].ID, "new games append at the end")
}

func TestAddGameGroupNotFound(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	_, err := store.AddGame(context.Background(), "missing", model.Game{ID: 1, Name: "x"})
	var notFound errs.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestRemoveGameTwice(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())
	ctx := context.Background()

	group, removed, err := store.RemoveGame(ctx, "Favorite", 17269)
	require.NoError(t, err)
	require.NotNil(t, group)
	require.NotNil(t, removed)
	assert.Equal(t, "Roblox", removed.Name)
	assert.Len(t, group.Games, 2)

	group, removed, err = store.RemoveGame(ctx, "Favorite", 17269)
	require.NoError(t, err)
	assert.NotNil(t, group, "group still resolves on the second removal")
	assert.Nil(t, removed, "second removal of the same id finds nothing")
}

func TestRemoveGameGroupNotFound(t *testing.T) {
	store, _ := seedStore(t, sampleGroups())

	group, removed, err := store.RemoveGame(context.Background(), "missing", 17269)
	assert.Nil(t, group)
	assert.Nil(t, removed)
	var notFound errs.NotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestRoundTripEmptyGroup(t *testing.T) {
	store, path := seedStore(t, nil)
	ctx := context.Background()

	_, err := store.CreateGroup(ctx, "Empty", "no games yet")
	require.NoError(t, err)

	// reload through a fresh store instance
	fresh := NewStorage(Config{Path: path})
	group, err := fresh.GetGroup(ctx, "Empty")
	require.NoError(t, err)
	assert.Equal(t, "Empty", group.Name)
	assert.Equal(t, "no games yet", group.Description)
	assert.NotNil(t, group.Games)
	assert.Empty(t, group.Games)

	// the persisted document carries an explicit empty games array
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"games": []`)
}

func TestCorruptStoreSurfacesServiceUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store := NewStorage(Config{Path: path})

	_, err := store.GetGroups(context.Background())
	var unavailable errs.ServiceUnavailable
	assert.True(t, errors.As(err, &unavailable))
}
