// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tomtom215/columnist/internal/config"
)

// refreshTokenBytes is the entropy of a refresh token before encoding.
const refreshTokenBytes = 32

// RefreshToken pairs the opaque secret handed to the client with the
// hash and expiry persisted server-side. The plaintext is never stored.
type RefreshToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// RefreshTokenManager mints and hashes opaque refresh tokens.
type RefreshTokenManager struct {
	ttl time.Duration
}

// NewRefreshTokenManager creates a manager using the configured
// refresh token TTL.
func NewRefreshTokenManager(cfg *config.SecurityConfig) *RefreshTokenManager {
	return &RefreshTokenManager{ttl: cfg.RefreshTokenTTL}
}

// Generate mints a new refresh token: 32 bytes from crypto/rand,
// base64url-encoded without padding. Only the SHA-256 hash is meant for
// storage.
func (m *RefreshTokenManager) Generate() (*RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	plaintext := base64.RawURLEncoding.EncodeToString(buf)
	return &RefreshToken{
		Plaintext: plaintext,
		Hash:      HashRefreshToken(plaintext),
		ExpiresAt: time.Now().Add(m.ttl),
	}, nil
}

// TTL returns the configured refresh token lifetime.
func (m *RefreshTokenManager) TTL() time.Duration {
	return m.ttl
}

// HashRefreshToken returns the hex-encoded SHA-256 digest of a token.
// Lookups compare hashes, so a database leak does not expose usable
// tokens.
func HashRefreshToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
