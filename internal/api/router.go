// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/columnist/internal/auth"
	"github.com/tomtom215/columnist/internal/middleware"
)

// NewRouter assembles the full route tree.
//
// Route groups, outermost first:
//   - /metrics and /api/v1/health are public.
//   - /api/v1/auth is public with per-IP rate limiting; login gets a
//     stricter limit against brute force.
//   - /api/v1/datasets requires a Bearer access token; every handler
//     reads the tenant from the token, never from the request.
func NewRouter(h *Handler) http.Handler {
	cfg := h.cfg
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/v1/health", h.Health)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))

		r.Get("/tenants", h.ListTenants)
		r.Post("/tenants", h.CreateTenant)
		r.Post("/register", h.Register)

		// Strictest limit on login: 5 attempts per 5 minutes per IP.
		r.With(httprate.LimitByIP(5, 5*time.Minute)).Post("/login", h.Login)

		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)

		r.With(auth.Authenticate(h.jwtManager)).Get("/me", h.Me)
	})

	r.Route("/api/v1/datasets", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
		r.Use(auth.Authenticate(h.jwtManager))

		r.Get("/", h.ListDatasets)
		r.Post("/", h.UploadDataset)
		r.Get("/{id}", h.GetDataset)
		r.Delete("/{id}", h.DeleteDataset)
		r.Post("/{id}/aggregate", h.AggregateDataset)
	})

	return r
}
