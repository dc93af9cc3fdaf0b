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

// CreateTenant inserts a new tenant. Names are unique.
func (db *DB) CreateTenant(ctx context.Context, name string) (*models.Tenant, error) {
	tenant := &models.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tenants (id, name, created_at) VALUES (?, ?, ?)`,
		tenant.ID, tenant.Name, tenant.CreatedAt,
	)
	metrics.RecordDBQuery("insert", "tenants", time.Since(start), err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateTenant
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return tenant, nil
}

// GetTenant retrieves a tenant by ID.
func (db *DB) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant

	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM tenants WHERE id = ?`, id,
	).Scan(&tenant.ID, &tenant.Name, &tenant.CreatedAt)
	metrics.RecordDBQuery("select", "tenants", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

// ListTenants returns all tenants ordered by name. The list is public:
// the registration form needs it before any authentication exists.
func (db *DB) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at FROM tenants ORDER BY name`)
	metrics.RecordDBQuery("select", "tenants", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer closeQuietly(rows)

	tenants := []models.Tenant{}
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenants: %w", err)
	}

	return tenants, nil
}
