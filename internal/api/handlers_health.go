// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package api

import (
	"context"
	"net/http"
	"time"
)

// Health reports service and database health. Returns 503 when the
// database does not respond within two seconds.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{
		"service":  "ok",
		"database": "ok",
	}

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		respondError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database is not responding", err)
		return
	}

	respondJSON(w, http.StatusOK, status, 0)
}
