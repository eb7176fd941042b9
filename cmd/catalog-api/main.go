// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

// Command catalog-api serves the game catalog HTTP API: group management
// backed by either the flat-file or the NATS KV repository, joined with live
// metadata from the external game catalog.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covida/game-catalog-service/internal/domain/port"
	"github.com/covida/game-catalog-service/internal/infrastructure/filestore"
	"github.com/covida/game-catalog-service/internal/infrastructure/igdb"
	natsinfra "github.com/covida/game-catalog-service/internal/infrastructure/nats"
	"github.com/covida/game-catalog-service/internal/service"
	"github.com/covida/game-catalog-service/pkg/constants"
	"github.com/covida/game-catalog-service/pkg/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.InitStructureLogConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "invalid configuration", "error", err, log.PriorityCritical())
		os.Exit(1)
	}

	groupRepo, userRepo, cleanup, err := buildRepositories(ctx, config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize storage", "error", err, log.PriorityCritical())
		os.Exit(1)
	}
	defer cleanup()

	igdbConfig := igdb.NewConfigFromEnv()
	if igdbConfig.ClientID == "" {
		igdbConfig.ClientID = config.IGDB.ClientID
	}
	if igdbConfig.ClientSecret == "" {
		igdbConfig.ClientSecret = config.IGDB.ClientSecret
	}

	gameCatalog, err := igdb.NewClient(igdbConfig)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize catalog client", "error", err, log.PriorityCritical())
		os.Exit(1)
	}

	reader := service.NewCatalogReaderOrchestrator(
		service.WithGroupReader(groupRepo),
		service.WithGameCatalog(gameCatalog),
	)
	writer := service.NewCatalogWriterOrchestrator(
		service.WithGroupWriter(groupRepo),
		service.WithWriterGameCatalog(gameCatalog),
		service.WithUserWriter(userRepo),
	)

	handler := newHandler(reader, writer)
	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           requestLogger(handler.routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting HTTP server",
			"service", constants.ServiceName,
			"port", config.Port,
			"storage_backend", config.Storage.Backend,
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "HTTP server failed", "error", err, log.PriorityCritical())
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "graceful shutdown failed", "error", err)
	}

	slog.InfoContext(ctx, "server stopped", "service", constants.ServiceName)
}

// buildRepositories constructs the group and user repositories for the
// configured backend. The flat-file backend has no user storage; the user
// repository is nil there and the writer orchestrator skips the sync.
func buildRepositories(ctx context.Context, config appConfig) (port.GroupReaderWriter, port.UserReaderWriter, func(), error) {
	switch config.Storage.Backend {
	case constants.StorageBackendNATS:
		client, err := natsinfra.NewClient(ctx, natsinfra.NewConfigFromEnv())
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close NATS connection", "error", err)
			}
		}
		return natsinfra.NewStorage(client), natsinfra.NewUserStorage(client), cleanup, nil

	default:
		fileConfig := filestore.NewConfigFromEnv()
		if config.Storage.Path != "" {
			fileConfig.Path = config.Storage.Path
		}
		return filestore.NewStorage(fileConfig), nil, func() {}, nil
	}
}
