// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/covida/game-catalog-service/internal/domain/model"
)

// UserReader defines the interface for user read operations
type UserReader interface {
	// GetUser retrieves a user by username; missing users yield NotFound.
	GetUser(ctx context.Context, username string) (*model.User, error)
}

// UserWriter defines the interface for user write operations, including the
// maintenance of the denormalized group references each user carries.
type UserWriter interface {
	// CreateUser creates a user with no groups; an existing username yields
	// Conflict.
	CreateUser(ctx context.Context, username, password string) (*model.User, error)

	// AddUserGroup upserts a group reference on the user's denormalized list.
	AddUserGroup(ctx context.Context, username string, ref model.GroupRef) (*model.User, error)

	// RemoveUserGroup removes a group reference from the user's list.
	RemoveUserGroup(ctx context.Context, username, groupID string) (*model.User, error)

	// RenameGroupForAllUsers updates the cached name of a group on every
	// user that references it, after a group rename.
	RenameGroupForAllUsers(ctx context.Context, groupID, newName string) error

	// RemoveGroupFromAllUsers drops the reference from every user after a
	// group deletion.
	RemoveGroupFromAllUsers(ctx context.Context, groupID string) error
}

// UserReaderWriter combines user reader and writer operations
type UserReaderWriter interface {
	UserReader
	UserWriter

	// IsReady checks if the storage is ready by verifying the underlying medium
	IsReady(ctx context.Context) error
}
