// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/columnist/internal/auth"
	"github.com/tomtom215/columnist/internal/database"
	"github.com/tomtom215/columnist/internal/logging"
	"github.com/tomtom215/columnist/internal/metrics"
	"github.com/tomtom215/columnist/internal/models"
	"github.com/tomtom215/columnist/internal/tabular"
)

// ListDatasets returns the metadata of the caller's datasets.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Not authenticated", nil)
		return
	}

	start := time.Now()
	datasets, err := h.db.ListDatasets(r.Context(), subject.TenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list datasets", err)
		return
	}

	metas := make([]models.DatasetMetadata, len(datasets))
	for i := range datasets {
		metas[i] = datasets[i].Metadata()
	}
	respondJSON(w, http.StatusOK, metas, time.Since(start))
}

// UploadDataset ingests a CSV file from a multipart form field named
// "file". The file is decoded as UTF-8, falling back to Latin-1 when
// the bytes are not valid UTF-8. Structural CSV problems reject the
// whole upload; malformed individual cells degrade to null.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Not authenticated", nil)
		return
	}

	maxBytes := h.cfg.Upload.MaxFileSizeBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RecordDatasetUpload("too_large", 0)
			respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "File exceeds the upload size limit", err)
			return
		}
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request is not valid multipart form data", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Multipart field 'file' is required", err)
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Only .csv files are accepted", nil)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read uploaded file", err)
		return
	}

	content, err := decodeCSVBytes(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "File is not valid UTF-8 or Latin-1 text", err)
		return
	}

	start := time.Now()
	table, err := tabular.ParseCSV(content, h.thresholds())
	if err != nil {
		metrics.RecordDatasetUpload("parse_error", 0)
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	dataset, err := h.db.CreateDataset(r.Context(), subject.TenantID, header.Filename, table)
	if err != nil {
		metrics.RecordDatasetUpload("db_error", 0)
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store dataset", err)
		return
	}

	metrics.RecordDatasetUpload("success", dataset.RowCount)
	logging.Ctx(r.Context()).Info().
		Str("dataset_id", dataset.ID).
		Str("tenant_id", subject.TenantID).
		Int("rows", dataset.RowCount).
		Int("columns", len(dataset.Columns)).
		Msg("Dataset uploaded")

	respondJSON(w, http.StatusCreated, dataset.Metadata(), time.Since(start))
}

// GetDataset returns a dataset's metadata together with all rows.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Not authenticated", nil)
		return
	}

	datasetID := chi.URLParam(r, "id")
	start := time.Now()

	dataset, err := h.db.GetDataset(r.Context(), subject.TenantID, datasetID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dataset", err)
		return
	}

	rows, err := h.db.GetDatasetRows(r.Context(), dataset.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dataset rows", err)
		return
	}

	respondJSON(w, http.StatusOK, models.DatasetDetail{
		DatasetMetadata: dataset.Metadata(),
		Data:            rows,
	}, time.Since(start))
}

// DeleteDataset removes a dataset and all its rows.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Not authenticated", nil)
		return
	}

	datasetID := chi.URLParam(r, "id")
	if err := h.db.DeleteDataset(r.Context(), subject.TenantID, datasetID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete dataset", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("dataset_id", datasetID).Msg("Dataset deleted")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Dataset deleted"}, 0)
}

// AggregateDataset runs a grouped min/max/avg aggregation over a
// dataset. The request is validated against the dataset's schema, then
// pushed down to DuckDB.
func (h *Handler) AggregateDataset(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Not authenticated", nil)
		return
	}

	datasetID := chi.URLParam(r, "id")

	var req AggregateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dataset, err := h.db.GetDataset(r.Context(), subject.TenantID, datasetID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dataset", err)
		return
	}

	filters := make([]tabular.Filter, len(req.Filters))
	for i, f := range req.Filters {
		filters[i] = tabular.Filter{Column: f.Column, Value: f.Value}
	}

	plan, err := tabular.ValidatePlan(dataset.Columns, tabular.Request{
		GroupBy: req.GroupBy,
		Metrics: req.Metrics,
		Filters: filters,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	start := time.Now()
	results, err := h.db.AggregateDataset(r.Context(), dataset.ID, plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Aggregation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, models.AggregateResponse{
		GroupBy: plan.GroupBy,
		Results: results,
	}, time.Since(start))
}

// thresholds converts the inference configuration to tabular form.
func (h *Handler) thresholds() tabular.Thresholds {
	inf := h.cfg.Inference
	return tabular.Thresholds{
		NumericRatio:    inf.NumericRatio,
		UniquenessRatio: inf.UniquenessRatio,
		YearMin:         inf.YearMin,
		YearMax:         inf.YearMax,
		IDMaxValue:      inf.IDMaxValue,
	}
}

// decodeCSVBytes interprets the upload as UTF-8 when possible and
// Latin-1 otherwise. Latin-1 maps every byte, so exports from older
// spreadsheet tools still ingest instead of failing on accented text.
func decodeCSVBytes(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
