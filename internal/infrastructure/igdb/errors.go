// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package igdb

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/covida/game-catalog-service/pkg/errors"
	"github.com/covida/game-catalog-service/pkg/httpclient"
)

// mapHTTPError maps httpclient errors to domain errors with context logging
func mapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if retryableErr, ok := err.(*httpclient.RetryableError); ok {
		slog.WarnContext(ctx, "IGDB HTTP error occurred",
			"status_code", retryableErr.StatusCode,
			"message", retryableErr.Message,
		)

		switch retryableErr.StatusCode {
		case http.StatusBadRequest:
			return errors.NewValidation("IGDB rejected the query", err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewServiceUnavailable("IGDB authentication failed", err)
		case http.StatusNotFound:
			return errors.NewNotFound("IGDB endpoint not found", err)
		case http.StatusTooManyRequests:
			return errors.NewServiceUnavailable("IGDB rate limited", err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errors.NewServiceUnavailable("IGDB service unavailable", err)
		default:
			slog.ErrorContext(ctx, "unexpected IGDB HTTP status code",
				"status_code", retryableErr.StatusCode,
				"message", retryableErr.Message,
			)
			return errors.NewUnexpected("IGDB API error", err)
		}
	}

	slog.ErrorContext(ctx, "IGDB request failed with non-HTTP error",
		"error", err.Error(),
	)
	return errors.NewServiceUnavailable("IGDB request failed", err)
}
