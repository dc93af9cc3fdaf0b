// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Command server runs the Columnist API: CSV upload with automatic
// column type inference, grouped aggregations, and multi-tenant
// authentication, backed by DuckDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/columnist/internal/api"
	"github.com/tomtom215/columnist/internal/auth"
	"github.com/tomtom215/columnist/internal/config"
	"github.com/tomtom215/columnist/internal/database"
	"github.com/tomtom215/columnist/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT manager: %w", err)
	}

	handler := api.NewHandler(db, cfg, jwtManager,
		auth.NewRefreshTokenManager(&cfg.Security),
		auth.NewPasswordHasher(cfg.Security.BcryptCost))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	go pruneRefreshTokens(db)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Str("environment", cfg.Server.Environment).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}

// pruneRefreshTokens removes expired refresh tokens hourly. The rows
// are already invisible to lookups; this keeps the table from growing
// without bound.
func pruneRefreshTokens(db *database.DB) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pruned, err := db.DeleteExpiredRefreshTokens(ctx)
		cancel()
		if err != nil {
			logging.Warn().Err(err).Msg("Refresh token prune failed")
			continue
		}
		if pruned > 0 {
			logging.Debug().Int64("pruned", pruned).Msg("Expired refresh tokens removed")
		}
	}
}
