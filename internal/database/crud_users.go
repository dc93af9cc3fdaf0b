// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/columnist/internal/metrics"
	"github.com/tomtom215/columnist/internal/models"
)

// CreateUser inserts a new user into a tenant. The password hash must
// already be computed; this layer never sees plaintext passwords.
func (db *DB) CreateUser(ctx context.Context, tenantID, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, tenant_id, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.TenantID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	metrics.RecordDBQuery("insert", "users", time.Since(start), err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, `SELECT id, tenant_id, email, password_hash, created_at
		FROM users WHERE email = ?`, email)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.getUser(ctx, `SELECT id, tenant_id, email, password_hash, created_at
		FROM users WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.TenantID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
