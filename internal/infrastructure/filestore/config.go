// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package filestore

import (
	"os"

	"github.com/covida/game-catalog-service/pkg/constants"
)

// Config holds the configuration for the flat-file group store
type Config struct {
	// Path is the JSON file holding the whole group collection
	Path string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Path: "./data/groups.json",
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if path := os.Getenv(constants.EnvGroupStoragePath); path != "" {
		config.Path = path
	}

	return config
}
