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

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/columnist/internal/metrics"
	"github.com/tomtom215/columnist/internal/models"
	"github.com/tomtom215/columnist/internal/tabular"
)

// CreateDataset stores a parsed CSV as a dataset plus its rows in one
// transaction, so a failed upload never leaves partial rows behind.
func (db *DB) CreateDataset(ctx context.Context, tenantID, name string, table *tabular.Table) (*models.Dataset, error) {
	dataset := &models.Dataset{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Columns:   table.Columns,
		RowCount:  len(table.Rows),
		CreatedAt: time.Now().UTC(),
	}

	columnsJSON, err := json.Marshal(dataset.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to encode columns: %w", err)
	}

	start := time.Now()
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO datasets (id, tenant_id, name, columns_json, row_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			dataset.ID, dataset.TenantID, dataset.Name, string(columnsJSON),
			dataset.RowCount, dataset.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert dataset: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO dataset_rows (dataset_id, row_index, row_data) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare row insert: %w", err)
		}
		defer closeQuietly(stmt)

		for i, row := range table.Rows {
			rowJSON, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("failed to encode row %d: %w", i, err)
			}
			if _, err := stmt.ExecContext(ctx, dataset.ID, i, string(rowJSON)); err != nil {
				return fmt.Errorf("failed to insert row %d: %w", i, err)
			}
		}
		return nil
	})
	metrics.RecordDBQuery("insert", "datasets", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return dataset, nil
}

// ListDatasets returns the metadata of every dataset owned by a tenant,
// newest first.
func (db *DB) ListDatasets(ctx context.Context, tenantID string) ([]models.Dataset, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, tenant_id, name, columns_json, row_count, created_at
		 FROM datasets WHERE tenant_id = ? ORDER BY created_at DESC, id`,
		tenantID)
	metrics.RecordDBQuery("select", "datasets", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer closeQuietly(rows)

	datasets := []models.Dataset{}
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, *dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}

	return datasets, nil
}

// GetDataset retrieves a dataset's metadata. The tenant ID is part of
// the lookup key: a dataset belonging to another tenant is reported as
// not found, never as forbidden, so IDs cannot be probed across tenants.
func (db *DB) GetDataset(ctx context.Context, tenantID, datasetID string) (*models.Dataset, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, columns_json, row_count, created_at
		 FROM datasets WHERE id = ? AND tenant_id = ?`,
		datasetID, tenantID)

	dataset, err := scanDataset(row)
	metrics.RecordDBQuery("select", "datasets", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return dataset, nil
}

// GetDatasetRows returns all rows of a dataset in upload order.
func (db *DB) GetDatasetRows(ctx context.Context, datasetID string) ([]tabular.Row, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT row_data FROM dataset_rows WHERE dataset_id = ? ORDER BY row_index`,
		datasetID)
	metrics.RecordDBQuery("select", "dataset_rows", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer closeQuietly(rows)

	result := []tabular.Row{}
	for rows.Next() {
		var rowJSON string
		if err := rows.Scan(&rowJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var row tabular.Row
		if err := json.Unmarshal([]byte(rowJSON), &row); err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// DeleteDataset removes a dataset and its rows. Returns ErrNotFound if
// the dataset does not exist or belongs to another tenant.
func (db *DB) DeleteDataset(ctx context.Context, tenantID, datasetID string) error {
	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM datasets WHERE id = ? AND tenant_id = ?`,
			datasetID, tenantID)
		if err != nil {
			return fmt.Errorf("failed to delete dataset: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check delete result: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM dataset_rows WHERE dataset_id = ?`, datasetID); err != nil {
			return fmt.Errorf("failed to delete dataset rows: %w", err)
		}
		return nil
	})
	metrics.RecordDBQuery("delete", "datasets", time.Since(start), err)
	return err
}

// withTx runs fn inside a transaction, committing on nil and rolling
// back on error.
func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(scanner rowScanner) (*models.Dataset, error) {
	var dataset models.Dataset
	var columnsJSON string

	err := scanner.Scan(&dataset.ID, &dataset.TenantID, &dataset.Name,
		&columnsJSON, &dataset.RowCount, &dataset.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan dataset: %w", err)
	}

	if err := json.Unmarshal([]byte(columnsJSON), &dataset.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns: %w", err)
	}
	return &dataset, nil
}
