// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package config holds all application configuration, loaded with Koanf v2
// from layered sources (highest priority wins):
//
//  1. Environment variables (JWT_SECRET, DUCKDB_PATH, HTTP_PORT, ...)
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Built-in defaults
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Upload    UploadConfig    `koanf:"upload"`
	Inference InferenceConfig `koanf:"inference"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path. Empty opens an in-memory database
	// (used by tests).
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Required, 32+ characters.
	JWTSecret string `koanf:"jwt_secret"`

	// AccessTokenTTL bounds access token lifetime. Access tokens are
	// short-lived; clients renew them via the refresh endpoint.
	AccessTokenTTL time.Duration `koanf:"access_token_ttl"`

	// RefreshTokenTTL bounds refresh token lifetime. Refresh tokens are
	// rotated on every use.
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed cross-origin hosts.
	CORSOrigins []string `koanf:"cors_origins"`

	// SecureCookies marks the refresh cookie Secure. Disable only for
	// local development over plain HTTP.
	SecureCookies bool `koanf:"secure_cookies"`
}

// UploadConfig holds CSV ingestion limits.
type UploadConfig struct {
	// MaxFileSizeBytes caps uploaded file size before parsing.
	MaxFileSizeBytes int64 `koanf:"max_file_size_bytes"`
}

// InferenceConfig holds the column type inference thresholds. These map
// directly onto tabular.Thresholds; see that type for the semantics.
type InferenceConfig struct {
	NumericRatio    float64 `koanf:"numeric_ratio"`
	UniquenessRatio float64 `koanf:"uniqueness_ratio"`
	YearMin         float64 `koanf:"year_min"`
	YearMax         float64 `koanf:"year_max"`
	IDMaxValue      float64 `koanf:"id_max_value"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/columnist.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			BcryptCost:      12,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			SecureCookies:   true,
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: 10 * 1024 * 1024, // 10MB
		},
		Inference: InferenceConfig{
			NumericRatio:    0.9,
			UniquenessRatio: 0.9,
			YearMin:         1900,
			YearMax:         2100,
			IDMaxValue:      10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values that would misbehave at
// runtime. Called by Load after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range 1-65535", c.Server.Port)
	}

	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}

	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range 10-31", c.Security.BcryptCost)
	}

	if c.Security.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive, got %s", c.Security.AccessTokenTTL)
	}
	if c.Security.RefreshTokenTTL <= c.Security.AccessTokenTTL {
		return fmt.Errorf("refresh token TTL %s must exceed access token TTL %s",
			c.Security.RefreshTokenTTL, c.Security.AccessTokenTTL)
	}

	if c.Upload.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Upload.MaxFileSizeBytes)
	}

	if err := c.Inference.validate(); err != nil {
		return err
	}

	return nil
}

func (ic *InferenceConfig) validate() error {
	if ic.NumericRatio <= 0 || ic.NumericRatio > 1 {
		return fmt.Errorf("inference numeric ratio %v out of range (0, 1]", ic.NumericRatio)
	}
	if ic.UniquenessRatio <= 0 || ic.UniquenessRatio > 1 {
		return fmt.Errorf("inference uniqueness ratio %v out of range (0, 1]", ic.UniquenessRatio)
	}
	if ic.YearMin >= ic.YearMax {
		return fmt.Errorf("inference year range [%v, %v] is empty", ic.YearMin, ic.YearMax)
	}
	if ic.IDMaxValue <= 0 {
		return fmt.Errorf("inference ID max value must be positive, got %v", ic.IDMaxValue)
	}
	return nil
}
