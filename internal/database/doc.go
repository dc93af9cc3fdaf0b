// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package database provides DuckDB-backed persistence for tenants,
// users, refresh tokens, and datasets.
//
// Dataset rows are stored as JSON documents in a single dataset_rows
// table, which lets datasets with arbitrary CSV schemas share one
// physical layout. Grouped aggregations are pushed down to DuckDB with
// json_extract_string and TRY_CAST, producing results identical to the
// in-memory reference in package tabular.
//
// Every dataset read and delete is keyed by (tenant_id, dataset_id);
// rows from other tenants are indistinguishable from missing rows.
package database
