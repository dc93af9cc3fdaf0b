// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package tabular implements the analytical core of Columnist: CSV parsing
// with per-column type inference, and grouped min/max/avg aggregation over
// the resulting typed rows.
//
// The package is deliberately free of I/O, storage, and HTTP concerns.
// Every entry point is a pure function over in-memory inputs, safe to call
// concurrently from independent requests without coordination.
//
// # Type Inference
//
// Each column is classified as either categorical (grouped and compared by
// equality) or continuous (treated as a real number eligible for min/max/avg).
// Classification runs over all raw string values observed for the column and
// is deterministic and order-independent. The heuristic thresholds live in
// a Thresholds struct so they remain testable and tunable; see
// InferColumnType for the exact rules.
//
// # Aggregation
//
// Aggregation is split into two steps: ValidatePlan checks a request against
// a dataset schema and produces a Plan, and Aggregate executes that plan over
// in-memory rows. The database package implements an equivalent execution of
// the same Plan as a DuckDB pushdown query; both backends must produce
// identical results for identical inputs, which is what allows the API layer
// to pick either.
package tabular
