// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/columnist/internal/auth"
	"github.com/tomtom215/columnist/internal/database"
	"github.com/tomtom215/columnist/internal/logging"
	"github.com/tomtom215/columnist/internal/models"
)

// refreshCookieName is the HttpOnly cookie carrying the opaque refresh
// token. The cookie is path-scoped to the auth routes so it never
// travels with dataset requests.
const refreshCookieName = "refresh_token"

const refreshCookiePath = "/api/v1/auth"

// ListTenants returns all tenants. Public: the registration form needs
// the list before any account exists.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenants, err := h.db.ListTenants(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list tenants", err)
		return
	}

	infos := make([]models.TenantInfo, len(tenants))
	for i, t := range tenants {
		infos[i] = models.TenantInfo{ID: t.ID, Name: t.Name}
	}
	respondJSON(w, http.StatusOK, infos, time.Since(start))
}

// CreateTenant creates a new tenant.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tenant, err := h.db.CreateTenant(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateTenant) {
			respondError(w, http.StatusConflict, "CONFLICT", "A tenant with this name already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create tenant", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("tenant_id", tenant.ID).Msg("Tenant created")
	respondJSON(w, http.StatusCreated, models.TenantInfo{ID: tenant.ID, Name: tenant.Name}, 0)
}

// Register creates a user in an existing tenant and signs them in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.db.GetTenant(r.Context(), req.TenantID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Tenant does not exist", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up tenant", err)
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process password", err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.TenantID, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "A user with this email already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Str("tenant_id", user.TenantID).Msg("User registered")
	h.issueTokens(w, r, user, http.StatusCreated)
}

// Login authenticates by email and password. Failures are reported with
// one generic message so attackers cannot distinguish an unknown email
// from a wrong password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid email or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up user", err)
		return
	}

	if !h.hasher.Verify(user.PasswordHash, req.Password) {
		logging.Ctx(r.Context()).Warn().Str("user_id", user.ID).Msg("Login failed")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid email or password", nil)
		return
	}

	h.issueTokens(w, r, user, http.StatusOK)
}

// Refresh rotates the refresh token and mints a new access token. The
// presented token is consumed whether or not rotation succeeds, so a
// stolen token can be replayed at most once.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Missing refresh token", nil)
		return
	}

	tokenHash := auth.HashRefreshToken(cookie.Value)
	record, err := h.db.GetRefreshToken(r.Context(), tokenHash)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.clearRefreshCookie(w)
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid or expired refresh token", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up refresh token", err)
		return
	}

	if err := h.db.DeleteRefreshToken(r.Context(), tokenHash); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to rotate refresh token", err)
		return
	}

	user, err := h.db.GetUserByID(r.Context(), record.UserID)
	if err != nil {
		h.clearRefreshCookie(w)
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Account no longer exists", err)
		return
	}

	h.issueTokens(w, r, user, http.StatusOK)
}

// Logout revokes the presented refresh token and clears the cookie.
// Always succeeds: logging out with an already-dead token is not an
// error worth surfacing.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		tokenHash := auth.HashRefreshToken(cookie.Value)
		if err := h.db.DeleteRefreshToken(r.Context(), tokenHash); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to revoke refresh token on logout")
		}
	}

	h.clearRefreshCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"}, 0)
}

// Me returns the authenticated subject.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Not authenticated", nil)
		return
	}

	respondJSON(w, http.StatusOK, models.UserInfo{
		UserID:   subject.UserID,
		TenantID: subject.TenantID,
		Email:    subject.Email,
	}, 0)
}

// issueTokens mints an access token and a fresh refresh token for the
// user, persists the refresh token hash, sets the cookie, and writes
// the token response.
func (h *Handler) issueTokens(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	subject := auth.Subject{UserID: user.ID, TenantID: user.TenantID, Email: user.Email}

	accessToken, err := h.jwtManager.GenerateToken(subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue access token", err)
		return
	}

	refreshToken, err := h.refreshManager.Generate()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue refresh token", err)
		return
	}

	if err := h.db.StoreRefreshToken(r.Context(), refreshToken.Hash, user.ID, refreshToken.ExpiresAt); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store refresh token", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken.Plaintext,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshManager.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Security.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, status, models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		UserID:      user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
	}, 0)
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Security.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
