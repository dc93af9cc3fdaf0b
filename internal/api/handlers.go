// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package api provides the HTTP layer: Chi routing, request decoding
// and validation, and handlers for health, authentication, and dataset
// operations.
package api

import (
	"github.com/tomtom215/columnist/internal/auth"
	"github.com/tomtom215/columnist/internal/config"
	"github.com/tomtom215/columnist/internal/database"
)

// Handler bundles the dependencies of all HTTP handlers.
type Handler struct {
	db             *database.DB
	cfg            *config.Config
	jwtManager     *auth.JWTManager
	refreshManager *auth.RefreshTokenManager
	hasher         *auth.PasswordHasher
}

// NewHandler creates the handler set.
func NewHandler(db *database.DB, cfg *config.Config, jwtManager *auth.JWTManager,
	refreshManager *auth.RefreshTokenManager, hasher *auth.PasswordHasher) *Handler {
	return &Handler{
		db:             db,
		cfg:            cfg,
		jwtManager:     jwtManager,
		refreshManager: refreshManager,
		hasher:         hasher,
	}
}
