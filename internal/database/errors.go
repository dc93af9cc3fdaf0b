// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package database

import (
	"errors"
	"io"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup matches no row. Handlers map
	// it to 404 (or 401 for refresh token lookups).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTenant is returned when a tenant name already exists.
	ErrDuplicateTenant = errors.New("tenant with this name already exists")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// isUniqueConstraintError detects DuckDB unique constraint violations,
// whose messages contain "UNIQUE constraint" or "Duplicate key".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") || strings.Contains(errMsg, "duplicate key")
}

// closeQuietly closes a resource and explicitly ignores any error.
// Used in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
