// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package models defines the API response envelope and the domain DTOs
// exchanged between the HTTP layer, storage, and clients.
package models

import (
	"time"

	"github.com/tomtom215/columnist/internal/tabular"
)

// APIResponse is the standardized response wrapper for all endpoints.
//
// Status is "success" or "error"; Data carries the payload on success and
// Error the details on failure. Metadata is always present.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error detail of a failed response.
//
// Common codes: VALIDATION_ERROR, AUTHENTICATION_ERROR, NOT_FOUND,
// CONFLICT, PAYLOAD_TOO_LARGE, DATABASE_ERROR, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TenantInfo is the public view of a tenant, served to the registration
// form.
type TenantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TokenResponse is returned by register, login, and refresh. The refresh
// token itself travels only in an HttpOnly cookie, never in the body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	TenantID    string `json:"tenant_id"`
	Email       string `json:"email"`
}

// UserInfo is the authenticated subject's public view.
type UserInfo struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
}

// DatasetMetadata describes an uploaded dataset without its rows.
type DatasetMetadata struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Columns   []tabular.Column `json:"columns"`
	RowCount  int              `json:"row_count"`
	CreatedAt time.Time        `json:"created_at"`
}

// DatasetDetail is DatasetMetadata plus every stored row.
type DatasetDetail struct {
	DatasetMetadata
	Data []tabular.Row `json:"data"`
}

// AggregateResponse is the result of a grouped aggregation.
type AggregateResponse struct {
	GroupBy string                `json:"group_by"`
	Results []tabular.GroupResult `json:"results"`
}
