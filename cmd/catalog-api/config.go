// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/covida/game-catalog-service/pkg/constants"
)

// appConfig is the entrypoint configuration. Values come from an optional
// YAML file overlaid by environment variables; the environment wins.
type appConfig struct {
	Port    string `yaml:"port"`
	Storage struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`
	IGDB struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"igdb"`
}

func loadConfig() (appConfig, error) {
	config := appConfig{
		Port: "8080",
	}
	config.Storage.Backend = constants.StorageBackendFile

	if path := os.Getenv(constants.EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if port := os.Getenv(constants.EnvHTTPPort); port != "" {
		config.Port = port
	}
	if backend := os.Getenv(constants.EnvGroupStorageBackend); backend != "" {
		config.Storage.Backend = backend
	}
	if path := os.Getenv(constants.EnvGroupStoragePath); path != "" {
		config.Storage.Path = path
	}

	switch config.Storage.Backend {
	case constants.StorageBackendFile, constants.StorageBackendNATS:
	default:
		return config, fmt.Errorf("unknown storage backend: %s", config.Storage.Backend)
	}

	return config, nil
}
