// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package auth implements password hashing, JWT access tokens, opaque
// refresh tokens, and the Bearer authentication middleware.
//
// Access tokens are short-lived HS256 JWTs carrying the user, tenant,
// and email. Refresh tokens are opaque random strings whose SHA-256
// hash is persisted server-side so they can be rotated and revoked.
package auth

import "context"

// Subject identifies the authenticated caller of a request. Every
// protected handler reads it from the request context; TenantID scopes
// all data access.
type Subject struct {
	UserID   string
	TenantID string
	Email    string
}

type contextKey string

const subjectKey contextKey = "auth_subject"

// ContextWithSubject returns a new context carrying the subject.
func ContextWithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// SubjectFromContext retrieves the authenticated subject. The second
// return value is false when the request did not pass authentication.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey).(Subject)
	return s, ok
}
