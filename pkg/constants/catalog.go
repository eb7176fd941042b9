// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package constants

// External catalog limits and defaults
const (
	// DefaultCatalogLimit is the result limit used when a caller does not supply one
	DefaultCatalogLimit = 10

	// MaxCatalogLimit is the largest result limit the external catalog accepts
	MaxCatalogLimit = 500

	// MinRatingDefault is the lower bound used when a rating-range query omits it
	MinRatingDefault = 0

	// MaxRatingDefault is the upper bound used when a rating-range query omits it
	MaxRatingDefault = 100
)
