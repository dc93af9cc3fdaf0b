// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for structural CSV failures. Callers translate these
// into client-facing 400 responses.
var (
	// ErrEmptyInput reports a file with no data rows.
	ErrEmptyInput = errors.New("CSV file is empty or has no data rows")

	// ErrMissingHeader reports a file whose header row is empty or absent.
	ErrMissingHeader = errors.New("CSV file has no headers")
)

// DuplicateColumnsError reports repeated column names in the header row.
type DuplicateColumnsError struct {
	// Names holds the offending column names, sorted, each listed once.
	Names []string
}

func (e *DuplicateColumnsError) Error() string {
	return fmt.Sprintf("duplicate column names found: %s", strings.Join(e.Names, ", "))
}

// ColumnRole identifies how a request refers to a column.
type ColumnRole string

const (
	// RoleGroupBy is the grouping key of an aggregation request.
	RoleGroupBy ColumnRole = "group_by"

	// RoleMetric is an aggregated metric of an aggregation request.
	RoleMetric ColumnRole = "metric"

	// RoleFilter is a filter condition of an aggregation request.
	RoleFilter ColumnRole = "filter"
)

// UnknownColumnError reports a request referencing a column that does not
// exist in the dataset schema.
type UnknownColumnError struct {
	Column string
	Role   ColumnRole
}

func (e *UnknownColumnError) Error() string {
	if e.Role == RoleFilter {
		return fmt.Sprintf("filter column '%s' not found in dataset", e.Column)
	}
	return fmt.Sprintf("column '%s' not found in dataset", e.Column)
}

// ColumnRoleError reports a column used in a role inconsistent with its
// inferred type: a non-categorical group-by or a non-continuous metric.
type ColumnRoleError struct {
	Column string
	Role   ColumnRole
	Type   ColumnType
}

func (e *ColumnRoleError) Error() string {
	switch e.Role {
	case RoleGroupBy:
		return fmt.Sprintf("column '%s' is not categorical and cannot be used for grouping", e.Column)
	case RoleMetric:
		return fmt.Sprintf("column '%s' is not continuous and cannot be aggregated", e.Column)
	default:
		return fmt.Sprintf("column '%s' has type %s, invalid for role %s", e.Column, e.Type, e.Role)
	}
}
