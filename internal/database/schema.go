// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package database

import (
	"context"
	"fmt"
)

// schemaStatements creates all tables. DuckDB executes them on every
// startup; IF NOT EXISTS keeps this idempotent.
//
// dataset_rows stores each CSV row as a JSON document so datasets with
// arbitrary columns share one table. Aggregations read the values back
// with json_extract_string.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id         VARCHAR PRIMARY KEY,
		name       VARCHAR NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR PRIMARY KEY,
		tenant_id     VARCHAR NOT NULL,
		email         VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token_hash VARCHAR PRIMARY KEY,
		user_id    VARCHAR NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS datasets (
		id           VARCHAR PRIMARY KEY,
		tenant_id    VARCHAR NOT NULL,
		name         VARCHAR NOT NULL,
		columns_json VARCHAR NOT NULL,
		row_count    INTEGER NOT NULL,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dataset_rows (
		dataset_id VARCHAR NOT NULL,
		row_index  INTEGER NOT NULL,
		row_data   VARCHAR NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_datasets_tenant ON datasets(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dataset_rows_dataset ON dataset_rows(dataset_id)`,
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
