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

	"github.com/tomtom215/columnist/internal/metrics"
	"github.com/tomtom215/columnist/internal/models"
)

// StoreRefreshToken persists a refresh token hash for a user.
func (db *DB) StoreRefreshToken(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?)`,
		tokenHash, userID, expiresAt, time.Now().UTC(),
	)
	metrics.RecordDBQuery("insert", "refresh_tokens", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken looks up a refresh token by hash. Expired tokens are
// treated as absent so callers only see usable tokens.
func (db *DB) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshTokenRecord, error) {
	var record models.RefreshTokenRecord

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`SELECT token_hash, user_id, expires_at, created_at
		 FROM refresh_tokens WHERE token_hash = ? AND expires_at > ?`,
		tokenHash, time.Now().UTC(),
	).Scan(&record.TokenHash, &record.UserID, &record.ExpiresAt, &record.CreatedAt)
	metrics.RecordDBQuery("select", "refresh_tokens", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &record, nil
}

// DeleteRefreshToken removes a single refresh token. Used on logout and
// on rotation, where the old token must stop working immediately.
func (db *DB) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = ?`, tokenHash)
	metrics.RecordDBQuery("delete", "refresh_tokens", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteExpiredRefreshTokens prunes tokens past their expiry. Returns
// the number of tokens removed.
func (db *DB) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	start := time.Now()
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ?`, time.Now().UTC())
	metrics.RecordDBQuery("delete", "refresh_tokens", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned tokens: %w", err)
	}
	return affected, nil
}
