// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the repository and
// catalog ports for testing.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	"github.com/covida/game-catalog-service/pkg/errors"
)

// MockRepository provides an in-memory implementation of the group and user
// repository interfaces. Groups are keyed by UID with a name-key index,
// mirroring the indexed store layout.
type MockRepository struct {
	groups     map[string]*model.Group // UID -> group
	groupNames map[string]string       // name key -> UID
	groupOrder []string                // UIDs in creation order
	users      map[string]*model.User  // username -> user
	mu         sync.RWMutex
}

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		groups:     make(map[string]*model.Group),
		groupNames: make(map[string]string),
		users:      make(map[string]*model.User),
	}
}

// NewMockRepositoryWithSampleData creates a mock repository preloaded with
// sample groups and users for testing.
func NewMockRepositoryWithSampleData() *MockRepository {
	mock := NewMockRepository()

	sampleGroups := []*model.Group{
		{
			UID:         "group-1",
			Name:        "Favorites",
			Description: "All-time favorites",
			Games: []model.Game{
				{ID: 1942, Name: "The Witcher 3: Wild Hunt"},
				{ID: 732, Name: "Grand Theft Auto V"},
			},
		},
		{
			UID:         "group-2",
			Name:        "Backlog",
			Description: "To play someday",
			Games:       []model.Game{},
		},
		{
			UID:         "group-3",
			Name:        "Indie Gems",
			Description: "Small studio picks",
			Games: []model.Game{
				{ID: 11, Name: "Celeste"},
			},
		},
	}

	for _, group := range sampleGroups {
		mock.groups[group.UID] = group
		mock.groupNames[group.NameKey()] = group.UID
		mock.groupOrder = append(mock.groupOrder, group.UID)
	}

	mock.users["alice"] = &model.User{
		Username: "alice",
		Password: "secret",
		Groups: []model.GroupRef{
			{ID: "group-1", Name: "Favorites"},
			{ID: "group-2", Name: "Backlog"},
		},
	}
	mock.users["bob"] = &model.User{
		Username: "bob",
		Password: "hunter2",
		Groups: []model.GroupRef{
			{ID: "group-1", Name: "Favorites"},
		},
	}

	return mock
}

// resolve maps a ref to a stored group. Both UID and case-insensitive name
// addressing are supported, the way callers address either backend.
// Callers must hold at least a read lock.
func (m *MockRepository) resolve(ref string) *model.Group {
	if group, ok := m.groups[ref]; ok {
		return group
	}
	if uid, ok := m.groupNames[model.NameKey(ref)]; ok {
		return m.groups[uid]
	}
	return nil
}

func copyGroup(group *model.Group) *model.Group {
	dup := *group
	dup.Games = make([]model.Game, len(group.Games))
	copy(dup.Games, group.Games)
	return &dup
}

func copyUser(user *model.User) *model.User {
	dup := *user
	dup.Groups = make([]model.GroupRef, len(user.Groups))
	copy(dup.Groups, user.Groups)
	return &dup
}

// GetGroups retrieves all groups in creation order
func (m *MockRepository) GetGroups(ctx context.Context) ([]*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]*model.Group, 0, len(m.groupOrder))
	for _, uid := range m.groupOrder {
		groups = append(groups, copyGroup(m.groups[uid]))
	}

	slog.DebugContext(ctx, "mock: listed groups", "count", len(groups))
	return groups, nil
}

// GetGroup retrieves a single group by ref
func (m *MockRepository) GetGroup(ctx context.Context, ref string) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	group := m.resolve(ref)
	if group == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("group not found: %s", ref))
	}
	return copyGroup(group), nil
}

// GetGroupGames retrieves the stored game references of a group
func (m *MockRepository) GetGroupGames(ctx context.Context, ref string) ([]model.Game, error) {
	group, err := m.GetGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	return group.Games, nil
}

// CreateGroup creates a group with no games
func (m *MockRepository) CreateGroup(ctx context.Context, name, description string) (*model.Group, error) {
	if model.NameKey(name) == "" {
		return nil, errors.NewValidation("group name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.groupNames[model.NameKey(name)]; exists {
		return nil, errors.NewConflict(fmt.Sprintf("group already exists: %s", name))
	}

	group := &model.Group{
		UID:         uuid.New().String(),
		Name:        name,
		Description: description,
		Games:       []model.Game{},
	}
	m.groups[group.UID] = group
	m.groupNames[group.NameKey()] = group.UID
	m.groupOrder = append(m.groupOrder, group.UID)

	slog.DebugContext(ctx, "mock: created group", "group_uid", group.UID, "group_name", name)
	return copyGroup(group), nil
}

// UpdateGroup edits name and/or description; nil fields retain prior values
func (m *MockRepository) UpdateGroup(ctx context.Context, ref string, update model.GroupUpdate) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	group := m.resolve(ref)
	if group == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("group not found: %s", ref))
	}

	if update.Name != nil && model.NameKey(*update.Name) != group.NameKey() {
		if model.NameKey(*update.Name) == "" {
			return nil, errors.NewValidation("group name is required")
		}
		if _, exists := m.groupNames[model.NameKey(*update.Name)]; exists {
			return nil, errors.NewConflict(fmt.Sprintf("group already exists: %s", *update.Name))
		}
		delete(m.groupNames, group.NameKey())
		group.Name = *update.Name
		m.groupNames[group.NameKey()] = group.UID
	} else if update.Name != nil {
		// Case-variant self-rename
		group.Name = *update.Name
	}

	if update.Description != nil {
		group.Description = *update.Description
	}

	return copyGroup(group), nil
}

// DeleteGroup removes and returns the group
func (m *MockRepository) DeleteGroup(ctx context.Context, ref string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	group := m.resolve(ref)
	if group == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("group not found: %s", ref))
	}

	delete(m.groups, group.UID)
	delete(m.groupNames, group.NameKey())
	for i, uid := range m.groupOrder {
		if uid == group.UID {
			m.groupOrder = append(m.groupOrder[:i], m.groupOrder[i+1:]...)
			break
		}
	}

	return group, nil
}

// AddGame upserts a game reference by id
func (m *MockRepository) AddGame(ctx context.Context, ref string, game model.Game) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	group := m.resolve(ref)
	if group == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("group not found: %s", ref))
	}

	group.UpsertGame(game)
	return copyGroup(group), nil
}

// RemoveGame removes the game with the given id
func (m *MockRepository) RemoveGame(ctx context.Context, ref string, gameID int64) (*model.Group, *model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	group := m.resolve(ref)
	if group == nil {
		return nil, nil, errors.NewNotFound(fmt.Sprintf("group not found: %s", ref))
	}

	removed := group.RemoveGame(gameID)
	return copyGroup(group), removed, nil
}

// GetUser retrieves a user by username
func (m *MockRepository) GetUser(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("user not found: %s", username))
	}
	return copyUser(user), nil
}

// CreateUser creates a user with no groups
func (m *MockRepository) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" {
		return nil, errors.NewValidation("username is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[username]; exists {
		return nil, errors.NewConflict(fmt.Sprintf("user already exists: %s", username))
	}

	user := &model.User{
		Username: username,
		Password: password,
		Groups:   []model.GroupRef{},
	}
	m.users[username] = user
	return copyUser(user), nil
}

// AddUserGroup upserts a group reference on the user's denormalized list
func (m *MockRepository) AddUserGroup(ctx context.Context, username string, ref model.GroupRef) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[username]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("user not found: %s", username))
	}

	user.UpsertGroup(ref)
	return copyUser(user), nil
}

// RemoveUserGroup removes a group reference from the user's list
func (m *MockRepository) RemoveUserGroup(ctx context.Context, username, groupID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[username]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("user not found: %s", username))
	}

	user.RemoveGroup(groupID)
	return copyUser(user), nil
}

// RenameGroupForAllUsers updates the cached name of a group on every user
// that references it
func (m *MockRepository) RenameGroupForAllUsers(ctx context.Context, groupID, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.HasGroup(groupID) {
			user.UpsertGroup(model.GroupRef{ID: groupID, Name: newName})
		}
	}
	return nil
}

// RemoveGroupFromAllUsers drops the reference from every user
func (m *MockRepository) RemoveGroupFromAllUsers(ctx context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		user.RemoveGroup(groupID)
	}
	return nil
}

// IsReady always reports ready
func (m *MockRepository) IsReady(ctx context.Context) error {
	return nil
}

var (
	_ port.GroupReaderWriter = (*MockRepository)(nil)
	_ port.UserReaderWriter  = (*MockRepository)(nil)
)
