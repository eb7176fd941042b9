// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package filestore provides the flat single-document group store: the whole
// collection is one JSON array, read and replaced wholesale on mutation.
// Groups are addressed by name, compared case-insensitively, and carry no UID.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	errs "github.com/covida/game-catalog-service/pkg/errors"
)

type storage struct {
	path string

	// Serializes read-modify-write cycles within this process. Concurrent
	// processes against the same file remain last-writer-wins.
	mu sync.Mutex
}

// load reads and decodes the whole collection. A missing file is an empty
// store, not an error.
func (s *storage) load(ctx context.Context) ([]*model.Group, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Group{}, nil
		}
		slog.ErrorContext(ctx, "failed to read group store", "error", err, "path", s.path)
		return nil, errs.NewServiceUnavailable("failed to read group store", err)
	}

	if len(data) == 0 {
		return []*model.Group{}, nil
	}

	groups := []*model.Group{}
	if err := json.Unmarshal(data, &groups); err != nil {
		slog.ErrorContext(ctx, "failed to decode group store", "error", err, "path", s.path)
		return nil, errs.NewServiceUnavailable("failed to decode group store", err)
	}

	for _, group := range groups {
		if group.Games == nil {
			group.Games = []model.Game{}
		}
	}

	return groups, nil
}

// save replaces the whole collection. The write goes to a temp file in the
// same directory followed by a rename, so readers never observe a torn file
// and a failed write leaves the prior state untouched.
func (s *storage) save(ctx context.Context, groups []*model.Group) error {
	data, err := json.MarshalIndent(groups, "", "\t")
	if err != nil {
		return errs.NewUnexpected("failed to encode group store", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		slog.ErrorContext(ctx, "failed to create temp store file", "error", err, "dir", dir)
		return errs.NewServiceUnavailable("failed to write group store", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		slog.ErrorContext(ctx, "failed to write temp store file", "error", err, "path", tmpName)
		return errs.NewServiceUnavailable("failed to write group store", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.NewServiceUnavailable("failed to write group store", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		slog.ErrorContext(ctx, "failed to replace group store", "error", err, "path", s.path)
		return errs.NewServiceUnavailable("failed to write group store", err)
	}

	return nil
}

func findGroup(groups []*model.Group, name string) *model.Group {
	key := model.NameKey(name)
	for _, group := range groups {
		if group.NameKey() == key {
			return group
		}
	}
	return nil
}

// GetGroups retrieves all groups in persisted order
func (s *storage) GetGroups(ctx context.Context) ([]*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetGroup retrieves a single group by name, case-insensitively
func (s *storage) GetGroup(ctx context.Context, ref string) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	group := findGroup(groups, ref)
	if group == nil {
		slog.DebugContext(ctx, "group not found", "group_name", ref)
		return nil, errs.NewNotFound("group not found")
	}
	return group, nil
}

// GetGroupGames retrieves the stored game references of a group
func (s *storage) GetGroupGames(ctx context.Context, ref string) ([]model.Game, error) {
	group, err := s.GetGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	return group.Games, nil
}

// CreateGroup appends a new group with no games. An existing name, compared
// case-insensitively, is rejected rather than replaced: the destructive
// replace variant would silently drop the prior group's games.
func (s *storage) CreateGroup(ctx context.Context, name, description string) (*model.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValidation("group name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if findGroup(groups, name) != nil {
		return nil, errs.NewConflict(fmt.Sprintf("group %q already exists", name))
	}

	group := &model.Group{
		Name:        name,
		Description: description,
		Games:       []model.Game{},
	}
	groups = append(groups, group)

	if err := s.save(ctx, groups); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "file storage: group created", "group_name", name)
	return group, nil
}

// UpdateGroup edits name and/or description in place. A rename onto a
// different existing group is a conflict; renaming a group to a case
// variant of its own name is allowed.
func (s *storage) UpdateGroup(ctx context.Context, ref string, update model.GroupUpdate) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	group := findGroup(groups, ref)
	if group == nil {
		return nil, errs.NewNotFound("group not found")
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, errs.NewValidation("group name cannot be empty")
		}
		if other := findGroup(groups, *update.Name); other != nil && other != group {
			return nil, errs.NewConflict(fmt.Sprintf("group %q already exists", *update.Name))
		}
		group.Name = *update.Name
	}
	if update.Description != nil {
		group.Description = *update.Description
	}

	if err := s.save(ctx, groups); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "file storage: group updated", "group_name", group.Name)
	return group, nil
}

// DeleteGroup removes and returns the group
func (s *storage) DeleteGroup(ctx context.Context, ref string) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := model.NameKey(ref)
	for i, group := range groups {
		if group.NameKey() == key {
			remaining := append(groups[:i], groups[i+1:]...)
			if err := s.save(ctx, remaining); err != nil {
				return nil, err
			}
			slog.DebugContext(ctx, "file storage: group deleted", "group_name", group.Name)
			return group, nil
		}
	}

	return nil, errs.NewNotFound("group not found")
}

// AddGame upserts a game reference on the group
func (s *storage) AddGame(ctx context.Context, ref string, game model.Game) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	group := findGroup(groups, ref)
	if group == nil {
		return nil, errs.NewNotFound("group not found")
	}

	replaced := group.UpsertGame(game)

	if err := s.save(ctx, groups); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "file storage: game added",
		"group_name", group.Name, "game_id", game.ID, "replaced", replaced)
	return group, nil
}

// RemoveGame removes a game reference from the group. A group found without
// the game is not a write.
func (s *storage) RemoveGame(ctx context.Context, ref string, gameID int64) (*model.Group, *model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	group := findGroup(groups, ref)
	if group == nil {
		return nil, nil, errs.NewNotFound("group not found")
	}

	removed := group.RemoveGame(gameID)
	if removed == nil {
		return group, nil, nil
	}

	if err := s.save(ctx, groups); err != nil {
		return nil, nil, err
	}

	slog.DebugContext(ctx, "file storage: game removed",
		"group_name", group.Name, "game_id", gameID)
	return group, removed, nil
}

// IsReady checks that the store directory is usable
func (s *storage) IsReady(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return errs.NewServiceUnavailable("group store directory not available", err)
	}
	return nil
}

// NewStorage creates the flat-file group repository with the given configuration
func NewStorage(config Config) port.GroupReaderWriter {
	return &storage{
		path: config.Path,
	}
}
