// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	"github.com/covida/game-catalog-service/pkg/constants"
	errs "github.com/covida/game-catalog-service/pkg/errors"

	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

type userStorage struct {
	storage
}

// GetUser retrieves a user record by username
func (s *userStorage) GetUser(ctx context.Context, username string) (*model.User, error) {
	user, _, err := s.getUserWithRevision(ctx, username)
	return user, err
}

func (s *userStorage) getUserWithRevision(ctx context.Context, username string) (*model.User, uint64, error) {
	user := &model.User{}
	rev, err := s.get(ctx, constants.KVBucketNameUsers, username, user)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "user not found", "username", username)
			return nil, 0, errs.NewNotFound("user not found")
		}
		slog.ErrorContext(ctx, "failed to get user", "error", err, "username", username)
		return nil, 0, errs.NewServiceUnavailable("failed to get user")
	}
	return user, rev, nil
}

// CreateUser creates a user record keyed by username. jetstream's Create
// refuses an existing key, which doubles as the uniqueness check.
func (s *userStorage) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errs.NewValidation("username cannot be empty")
	}

	user := &model.User{
		Username: username,
		Password: password,
		Groups:   []model.GroupRef{},
	}

	if err := s.createUniqueKey(ctx, constants.KVBucketNameUsers, username, username); err != nil {
		var conflict errs.Conflict
		if errors.As(err, &conflict) {
			return nil, errs.NewConflict("user already exists")
		}
		return nil, err
	}

	if _, err := s.put(ctx, constants.KVBucketNameUsers, username, user); err != nil {
		slog.ErrorContext(ctx, "failed to create user", "error", err, "username", username)
		return nil, errs.NewServiceUnavailable("failed to create user")
	}

	slog.DebugContext(ctx, "nats storage: user created", "username", username)
	return user, nil
}

// AddUserGroup upserts a denormalized group reference on the user record
func (s *userStorage) AddUserGroup(ctx context.Context, username string, ref model.GroupRef) (*model.User, error) {
	user, rev, err := s.getUserWithRevision(ctx, username)
	if err != nil {
		return nil, err
	}

	user.UpsertGroup(ref)

	if _, err := s.putWithRevision(ctx, constants.KVBucketNameUsers, username, user, rev); err != nil {
		slog.ErrorContext(ctx, "failed to add group to user",
			"error", err, "username", username, "group_id", ref.ID)
		return nil, errs.NewServiceUnavailable("failed to add group to user")
	}
	return user, nil
}

// RemoveUserGroup removes a denormalized group reference from the user record
func (s *userStorage) RemoveUserGroup(ctx context.Context, username, groupID string) (*model.User, error) {
	user, rev, err := s.getUserWithRevision(ctx, username)
	if err != nil {
		return nil, err
	}

	if !user.RemoveGroup(groupID) {
		return user, nil
	}

	if _, err := s.putWithRevision(ctx, constants.KVBucketNameUsers, username, user, rev); err != nil {
		slog.ErrorContext(ctx, "failed to remove group from user",
			"error", err, "username", username, "group_id", groupID)
		return nil, errs.NewServiceUnavailable("failed to remove group from user")
	}
	return user, nil
}

// RenameGroupForAllUsers updates the cached group name on every user record
// referencing the group. Fan-out is bounded; a record that changed under us
// is retried once by re-reading.
func (s *userStorage) RenameGroupForAllUsers(ctx context.Context, groupID, newName string) error {
	return s.forEachUserWithGroup(ctx, groupID, func(user *model.User) {
		user.UpsertGroup(model.GroupRef{ID: groupID, Name: newName})
	})
}

// RemoveGroupFromAllUsers drops the group reference from every user record
func (s *userStorage) RemoveGroupFromAllUsers(ctx context.Context, groupID string) error {
	return s.forEachUserWithGroup(ctx, groupID, func(user *model.User) {
		user.RemoveGroup(groupID)
	})
}

func (s *userStorage) forEachUserWithGroup(ctx context.Context, groupID string, mutate func(*model.User)) error {
	usernames, err := s.listKeys(ctx, constants.KVBucketNameUsers)
	if err != nil {
		return err
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for _, username := range usernames {
		g.Go(func() error {
			return s.mutateUserWithGroup(groupCtx, username, groupID, mutate)
		})
	}
	return g.Wait()
}

func (s *userStorage) mutateUserWithGroup(ctx context.Context, username, groupID string, mutate func(*model.User)) error {
	for attempt := 0; attempt < 2; attempt++ {
		user, rev, err := s.getUserWithRevision(ctx, username)
		if err != nil {
			var notFound errs.NotFound
			if errors.As(err, &notFound) {
				return nil
			}
			return err
		}
		if !user.HasGroup(groupID) {
			return nil
		}

		mutate(user)

		_, err = s.putWithRevision(ctx, constants.KVBucketNameUsers, username, user, rev)
		if err == nil {
			return nil
		}
		if attempt == 0 {
			// Revision moved under us; re-read once before giving up
			continue
		}
		slog.ErrorContext(ctx, "failed to sync group reference on user",
			"error", err, "username", username, "group_id", groupID)
	}
	return errs.NewServiceUnavailable("failed to sync group reference on user")
}

// NewUserStorage creates the user repository on top of the NATS client
func NewUserStorage(client *NATSClient) port.UserReaderWriter {
	return &userStorage{
		storage: storage{client: client},
	}
}
