// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

// Package metrics registers the Prometheus collectors for API traffic,
// DuckDB query performance, and dataset ingestion.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Dataset Ingestion Metrics
	DatasetUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_uploads_total",
			Help: "Total number of dataset upload attempts",
		},
		[]string{"outcome"}, // "success", "parse_error", "too_large", "db_error"
	)

	DatasetRowsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_rows_ingested_total",
			Help: "Total number of CSV rows stored across all uploads",
		},
	)

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of grouped aggregation queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"}, // "duckdb", "memory"
	)
)

// RecordDBQuery records a database query duration and, on failure, an error.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDatasetUpload records the outcome of one upload attempt.
func RecordDatasetUpload(outcome string, rows int) {
	DatasetUploadsTotal.WithLabelValues(outcome).Inc()
	if rows > 0 {
		DatasetRowsIngested.Add(float64(rows))
	}
}

// RecordAggregation records the duration of a grouped aggregation.
func RecordAggregation(engine string, duration time.Duration) {
	AggregationDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
