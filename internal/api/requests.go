// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package api

// CreateTenantRequest creates a new tenant.
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// RegisterRequest creates a user account within an existing tenant.
type RegisterRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest authenticates by email and password. Emails are globally
// unique, so no tenant hint is needed.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AggregateFilterRequest is one equality filter of an aggregation.
type AggregateFilterRequest struct {
	Column string `json:"column" validate:"required"`
	Value  string `json:"value"`
}

// AggregateRequest describes a grouped aggregation over a dataset.
type AggregateRequest struct {
	GroupBy string                   `json:"group_by" validate:"required"`
	Metrics []string                 `json:"metrics" validate:"required,min=1,dive,required"`
	Filters []AggregateFilterRequest `json:"filters" validate:"dive"`
}
