// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package models

import (
	"time"

	"github.com/tomtom215/columnist/internal/tabular"
)

// Tenant is an isolation boundary: every user and dataset belongs to
// exactly one tenant.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// User is a registered account within a tenant. Email addresses are
// unique across the whole installation so login needs no tenant hint.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RefreshTokenRecord is the server-side half of a refresh token. Only
// the SHA-256 hash of the opaque token is stored.
type RefreshTokenRecord struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Dataset is an uploaded CSV with its inferred schema. Rows are stored
// separately in dataset_rows.
type Dataset struct {
	ID        string
	TenantID  string
	Name      string
	Columns   []tabular.Column
	RowCount  int
	CreatedAt time.Time
}

// Metadata converts a Dataset to its API representation.
func (d *Dataset) Metadata() DatasetMetadata {
	return DatasetMetadata{
		ID:        d.ID,
		Name:      d.Name,
		Columns:   d.Columns,
		RowCount:  d.RowCount,
		CreatedAt: d.CreatedAt,
	}
}
