// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the game catalog service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "game-catalog"
)

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvGroupStorageBackend selects the group repository backend ("nats" or "file")
	EnvGroupStorageBackend = "GROUP_STORAGE_BACKEND"
	// EnvGroupStoragePath is the flat-store JSON file path
	EnvGroupStoragePath = "GROUP_STORAGE_PATH"
	// EnvHTTPPort is the listen port for the HTTP API
	EnvHTTPPort = "HTTP_PORT"
	// EnvConfigFile points at an optional YAML configuration file
	EnvConfigFile = "CONFIG_FILE"
)

// Storage backend kinds
const (
	// StorageBackendNATS selects the indexed per-record NATS KV store
	StorageBackendNATS = "nats"
	// StorageBackendFile selects the flat single-document JSON store
	StorageBackendFile = "file"
)
