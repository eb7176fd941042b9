// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
)

// GroupReaderWriter combines all reader and writer operations for groups.
//
// This interface follows the Repository pattern and is implemented by:
//   - the NATS KV storage layer (indexed per-record store)
//   - the flat-file storage layer (single-document store)
//   - the mock storage layer (testing)
//
// The service layer never branches on which implementation it holds.
type GroupReaderWriter interface {
	GroupReader
	GroupWriter

	// IsReady checks if the storage is ready by verifying the underlying medium
	IsReady(ctx context.Context) error
}
