// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Group represents a named collection of game references. UID is assigned by
// the indexed store; the flat store addresses groups by name and leaves UID
// empty.
type Group struct {
	UID         string `json:"uid,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Games       []Game `json:"games"`
}

// GroupSummary is the games-stripped view of a group returned by listings.
type GroupSummary struct {
	UID         string `json:"uid,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GroupRef is the denormalized copy of group identity kept inside a user
// record. ID holds the group UID for the indexed store and the group name
// key for the flat store.
type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupUpdate carries the fields of an edit operation. Nil fields retain
// the group's prior values.
type GroupUpdate struct {
	Name        *string
	Description *string
}

// NameKey normalizes a group name for case-insensitive comparison.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NameIndexKey generates a SHA-256 hash of the normalized group name for use
// as a NATS KV lookup key. Group names may contain characters a KV key
// cannot carry.
func NameIndexKey(name string) string {
	hash := sha256.Sum256([]byte(NameKey(name)))
	return hex.EncodeToString(hash[:])
}

// NameKey returns the group's normalized name.
func (g *Group) NameKey() string {
	return NameKey(g.Name)
}

// Summary strips the games list from the group.
func (g *Group) Summary() GroupSummary {
	return GroupSummary{
		UID:         g.UID,
		Name:        g.Name,
		Description: g.Description,
	}
}

// Ref returns the denormalized identity stored in user records. The flat
// store has no UID, so the name key doubles as the identifier there.
func (g *Group) Ref() GroupRef {
	id := g.UID
	if id == "" {
		id = g.NameKey()
	}
	return GroupRef{ID: id, Name: g.Name}
}

// FindGame returns the stored game with the given id, or nil.
func (g *Group) FindGame(id int64) *Game {
	for i := range g.Games {
		if g.Games[i].ID == id {
			return &g.Games[i]
		}
	}
	return nil
}

// UpsertGame inserts the game or, when a game with the same id is already
// present, replaces it in place so insertion order is preserved. Returns
// true when an existing entry was replaced.
func (g *Group) UpsertGame(game Game) bool {
	for i := range g.Games {
		if g.Games[i].ID == game.ID {
			g.Games[i] = game
			return true
		}
	}
	g.Games = append(g.Games, game)
	return false
}

// RemoveGame removes and returns the game with the given id, or nil when the
// group holds no such game.
func (g *Group) RemoveGame(id int64) *Game {
	for i := range g.Games {
		if g.Games[i].ID == id {
			removed := g.Games[i]
			g.Games = append(g.Games[:i], g.Games[i+1:]...)
			return &removed
		}
	}
	return nil
}

// GameIDs collects the ids of all stored games in insertion order.
func (g *Group) GameIDs() []int64 {
	ids := make([]int64, 0, len(g.Games))
	for _, game := range g.Games {
		ids = append(ids, game.ID)
	}
	return ids
}
