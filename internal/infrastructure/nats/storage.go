// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/domain/port"
	"github.com/covida/game-catalog-service/pkg/constants"
	errs "github.com/covida/game-catalog-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// listConcurrency bounds the parallel record fetches of a bucket scan.
const listConcurrency = 8

type storage struct {
	client *NATSClient
}

// get retrieves a record from the NATS KV store by bucket and key.
// It unmarshals the data into the provided model and returns the revision.
func (s *storage) get(ctx context.Context, bucket, key string, record any) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("key cannot be empty")
	}

	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	data, errGet := kv.Get(ctx, key)
	if errGet != nil {
		return 0, errGet
	}

	if err := json.Unmarshal(data.Value(), record); err != nil {
		return 0, err
	}

	return data.Revision(), nil
}

// put stores a record in the NATS KV store by bucket and key, returning the revision.
func (s *storage) put(ctx context.Context, bucket, key string, record any) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("key cannot be empty")
	}

	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return 0, err
	}

	return kv.Put(ctx, key, data)
}

// putWithRevision stores a record with compare-and-swap on the expected
// revision, so a read-modify-write never tears a concurrent update.
func (s *storage) putWithRevision(ctx context.Context, bucket, key string, record any, expectedRevision uint64) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("key cannot be empty")
	}

	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return 0, err
	}

	return kv.Update(ctx, key, data, expectedRevision)
}

// delete removes a record with revision checking.
func (s *storage) delete(ctx context.Context, bucket, key string, expectedRevision uint64) error {
	if key == "" {
		return errs.NewValidation("key cannot be empty")
	}

	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return errs.NewServiceUnavailable("KV bucket not available")
	}

	return kv.Delete(ctx, key, jetstream.LastRevision(expectedRevision))
}

// createUniqueKey creates a constraint key; an existing key signals a
// case-insensitive name collision.
func (s *storage) createUniqueKey(ctx context.Context, bucket, uniqueKey, entityID string) error {
	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return errs.NewServiceUnavailable("KV bucket not available")
	}

	if _, err := kv.Create(ctx, uniqueKey, []byte(entityID)); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			slog.WarnContext(ctx, "constraint violation - key already exists",
				"constraint_key", uniqueKey,
				"entity_id", entityID,
				"bucket", bucket,
			)
			return errs.NewConflict("group with the same name already exists")
		}
		slog.ErrorContext(ctx, "failed to create unique constraint",
			"error", err,
			"constraint_key", uniqueKey,
			"entity_id", entityID,
			"bucket", bucket,
		)
		return errs.NewServiceUnavailable("failed to create unique constraint", err)
	}

	return nil
}

// dropUniqueKey removes a constraint key, ignoring keys already gone.
func (s *storage) dropUniqueKey(ctx context.Context, bucket, uniqueKey string) error {
	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return errs.NewServiceUnavailable("KV bucket not available")
	}

	if err := kv.Purge(ctx, uniqueKey); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		return errs.NewServiceUnavailable("failed to drop unique constraint", err)
	}
	return nil
}

// listKeys scans the bucket and returns all record keys, skipping lookup keys.
func (s *storage) listKeys(ctx context.Context, bucket string) ([]string, error) {
	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return nil, errs.NewServiceUnavailable("KV bucket not available")
	}

	lister, err := kv.ListKeys(ctx)
	if err != nil {
		return nil, errs.NewServiceUnavailable("failed to list bucket keys", err)
	}

	keys := []string{}
	for key := range lister.Keys() {
		if strings.HasPrefix(key, constants.GroupLookupKeyPrefix) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func groupNameLookupKey(name string) string {
	return fmt.Sprintf(constants.KVLookupGroupNamePrefix, model.NameIndexKey(name))
}

// GetGroup retrieves a single group by UID
func (s *storage) GetGroup(ctx context.Context, ref string) (*model.Group, error) {
	group, _, err := s.getGroupWithRevision(ctx, ref)
	return group, err
}

func (s *storage) getGroupWithRevision(ctx context.Context, ref string) (*model.Group, uint64, error) {
	slog.DebugContext(ctx, "nats storage: getting group", "group_uid", ref)

	group := &model.Group{}
	rev, err := s.get(ctx, constants.KVBucketNameGroups, ref, group)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "group not found", "group_uid", ref)
			return nil, 0, errs.NewNotFound("group not found")
		}
		slog.ErrorContext(ctx, "failed to get group", "error", err, "group_uid", ref)
		return nil, 0, errs.NewServiceUnavailable("failed to get group")
	}

	return group, rev, nil
}

// GetGroups retrieves all groups. Records are fetched concurrently and
// returned sorted by name so listings are stable across bucket scans.
func (s *storage) GetGroups(ctx context.Context) ([]*model.Group, error) {
	keys, err := s.listKeys(ctx, constants.KVBucketNameGroups)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	groups := []*model.Group{}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			group := &model.Group{}
			if _, err := s.get(groupCtx, constants.KVBucketNameGroups, key, group); err != nil {
				if errors.Is(err, jetstream.ErrKeyNotFound) {
					// Deleted between scan and fetch
					return nil
				}
				return errs.NewServiceUnavailable("failed to get group", err)
			}
			mu.Lock()
			groups = append(groups, group)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].NameKey() < groups[j].NameKey()
	})

	slog.DebugContext(ctx, "nats storage: groups listed", "count", len(groups))
	return groups, nil
}

// GetGroupGames retrieves the stored game references of a group
func (s *storage) GetGroupGames(ctx context.Context, ref string) ([]model.Game, error) {
	group, err := s.GetGroup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if group.Games == nil {
		return []model.Game{}, nil
	}
	return group.Games, nil
}

// CreateGroup creates a new group with a fresh UID. The name lookup key is
// created first so a case-insensitive collision aborts before any record is
// written; a failed record write rolls the lookup key back.
func (s *storage) CreateGroup(ctx context.Context, name, description string) (*model.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValidation("group name cannot be empty")
	}

	group := &model.Group{
		UID:         uuid.New().String(),
		Name:        name,
		Description: description,
		Games:       []model.Game{},
	}

	lookupKey := groupNameLookupKey(name)
	if err := s.createUniqueKey(ctx, constants.KVBucketNameGroups, lookupKey, group.UID); err != nil {
		return nil, err
	}

	if _, err := s.put(ctx, constants.KVBucketNameGroups, group.UID, group); err != nil {
		slog.ErrorContext(ctx, "failed to create group, rolling back name lookup",
			"error", err, "group_uid", group.UID)
		if rollbackErr := s.dropUniqueKey(ctx, constants.KVBucketNameGroups, lookupKey); rollbackErr != nil {
			slog.ErrorContext(ctx, "failed to roll back name lookup key",
				"error", rollbackErr, "constraint_key", lookupKey)
		}
		return nil, errs.NewServiceUnavailable("failed to create group")
	}

	slog.DebugContext(ctx, "nats storage: group created",
		"group_uid", group.UID, "group_name", group.Name)
	return group, nil
}

// UpdateGroup edits name and/or description with compare-and-swap on the
// record revision. Renames claim the new lookup key before the record write
// and release the old one afterwards.
func (s *storage) UpdateGroup(ctx context.Context, ref string, update model.GroupUpdate) (*model.Group, error) {
	group, rev, err := s.getGroupWithRevision(ctx, ref)
	if err != nil {
		return nil, err
	}

	oldLookup := groupNameLookupKey(group.Name)
	newLookup := oldLookup

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, errs.NewValidation("group name cannot be empty")
		}
		newLookup = groupNameLookupKey(*update.Name)
		if newLookup != oldLookup {
			// Claiming the key detects a collision with a different group
			if err := s.createUniqueKey(ctx, constants.KVBucketNameGroups, newLookup, group.UID); err != nil {
				return nil, err
			}
		}
		group.Name = *update.Name
	}
	if update.Description != nil {
		group.Description = *update.Description
	}

	if _, err := s.putWithRevision(ctx, constants.KVBucketNameGroups, group.UID, group, rev); err != nil {
		slog.ErrorContext(ctx, "failed to update group", "error", err, "group_uid", group.UID)
		if newLookup != oldLookup {
			if rollbackErr := s.dropUniqueKey(ctx, constants.KVBucketNameGroups, newLookup); rollbackErr != nil {
				slog.ErrorContext(ctx, "failed to roll back name lookup key",
					"error", rollbackErr, "constraint_key", newLookup)
			}
		}
		return nil, errs.NewServiceUnavailable("failed to update group")
	}

	if newLookup != oldLookup {
		if err := s.dropUniqueKey(ctx, constants.KVBucketNameGroups, oldLookup); err != nil {
			slog.WarnContext(ctx, "failed to release old name lookup key",
				"error", err, "constraint_key", oldLookup)
		}
	}

	slog.DebugContext(ctx, "nats storage: group updated",
		"group_uid", group.UID, "group_name", group.Name)
	return group, nil
}

// DeleteGroup removes and returns the group along with its name lookup key
func (s *storage) DeleteGroup(ctx context.Context, ref string) (*model.Group, error) {
	group, rev, err := s.getGroupWithRevision(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := s.delete(ctx, constants.KVBucketNameGroups, group.UID, rev); err != nil {
		slog.ErrorContext(ctx, "failed to delete group", "error", err, "group_uid", group.UID)
		return nil, errs.NewServiceUnavailable("failed to delete group")
	}

	if err := s.dropUniqueKey(ctx, constants.KVBucketNameGroups, groupNameLookupKey(group.Name)); err != nil {
		slog.WarnContext(ctx, "failed to release name lookup key",
			"error", err, "group_uid", group.UID)
	}

	slog.DebugContext(ctx, "nats storage: group deleted", "group_uid", group.UID)
	return group, nil
}

// AddGame upserts a game reference on the group record
func (s *storage) AddGame(ctx context.Context, ref string, game model.Game) (*model.Group, error) {
	group, rev, err := s.getGroupWithRevision(ctx, ref)
	if err != nil {
		return nil, err
	}

	replaced := group.UpsertGame(game)

	if _, err := s.putWithRevision(ctx, constants.KVBucketNameGroups, group.UID, group, rev); err != nil {
		slog.ErrorContext(ctx, "failed to add game to group",
			"error", err, "group_uid", group.UID, "game_id", game.ID)
		return nil, errs.NewServiceUnavailable("failed to add game to group")
	}

	slog.DebugContext(ctx, "nats storage: game added",
		"group_uid", group.UID, "game_id", game.ID, "replaced", replaced)
	return group, nil
}

// RemoveGame removes a game reference from the group record. A group found
// without the game is not a write.
func (s *storage) RemoveGame(ctx context.Context, ref string, gameID int64) (*model.Group, *model.Game, error) {
	group, rev, err := s.getGroupWithRevision(ctx, ref)
	if err != nil {
		return nil, nil, err
	}

	removed := group.RemoveGame(gameID)
	if removed == nil {
		return group, nil, nil
	}

	if _, err := s.putWithRevision(ctx, constants.KVBucketNameGroups, group.UID, group, rev); err != nil {
		slog.ErrorContext(ctx, "failed to remove game from group",
			"error", err, "group_uid", group.UID, "game_id", gameID)
		return nil, nil, errs.NewServiceUnavailable("failed to remove game from group")
	}

	slog.DebugContext(ctx, "nats storage: game removed",
		"group_uid", group.UID, "game_id", gameID)
	return group, removed, nil
}

// IsReady checks if the storage is ready by verifying the client connection
func (s *storage) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

// NewStorage creates the indexed group repository on top of the NATS client
func NewStorage(client *NATSClient) port.GroupReaderWriter {
	return &storage{
		client: client,
	}
}
