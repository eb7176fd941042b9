// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package igdb

import (
	"github.com/covida/game-catalog-service/internal/domain/model"
)

// gameObject is the wire shape of an IGDB game record
type gameObject struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary,omitempty"`
	TotalRating *float64 `json:"total_rating,omitempty"`
	Follows     *int64   `json:"follows,omitempty"`
}

// errorObject is the wire shape of an IGDB error response entry
type errorObject struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Cause  string `json:"cause,omitempty"`
}

func mapGameDetails(objects []gameObject) []model.GameDetail {
	details := make([]model.GameDetail, 0, len(objects))
	for _, obj := range objects {
		details = append(details, model.GameDetail{
			ID:          obj.ID,
			Name:        obj.Name,
			Summary:     obj.Summary,
			TotalRating: obj.TotalRating,
			Follows:     obj.Follows,
		})
	}
	return details
}
