// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the game catalog service.
package model

// Game is a stored reference into the external catalog. Identity is ID; Name
// is a display cache and may be stale relative to the catalog.
type Game struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GameDetail is rich, ephemeral metadata about a game fetched from the
// external catalog. It is never persisted. Optional fields are pointers so
// absence can be told apart from zero.
type GameDetail struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary,omitempty"`
	TotalRating *float64 `json:"total_rating,omitempty"`
	Follows     *int64   `json:"follows,omitempty"`
}

// Ref converts the detail to the stored reference form.
func (d *GameDetail) Ref() Game {
	return Game{ID: d.ID, Name: d.Name}
}

// Rated reports whether the catalog tracks a rating for this game.
func (d *GameDetail) Rated() bool {
	return d.TotalRating != nil
}

// RatingWithin reports whether the game's rating falls inside [min, max]
// inclusive. Unrated games are retained unconditionally.
func (d *GameDetail) RatingWithin(min, max float64) bool {
	if d.TotalRating == nil {
		return true
	}
	return *d.TotalRating >= min && *d.TotalRating <= max
}
