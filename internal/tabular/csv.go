// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
)

// ParseCSV parses decoded CSV text into typed rows plus the inferred
// column schema. The first line is the header; quoting follows RFC 4180
// (quoted fields, embedded commas, newlines, doubled quotes).
//
// The caller owns size limits, file-extension checks, and character-set
// decoding; only decoded text enters here.
//
// Parsing is all-or-nothing: either the whole file becomes rows plus a
// schema, or a single typed error is returned (ErrEmptyInput,
// ErrMissingHeader, *DuplicateColumnsError, or a wrapped syntax error).
// Ragged rows are not a structural error: short rows pad with nulls and
// overflow cells are dropped, matching per-cell tolerance elsewhere.
func ParseCSV(content string, th Thresholds) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1 // ragged rows handled per-cell

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV parsing error: %w", err)
	}

	if len(records) == 0 || len(records) == 1 {
		// Header-only and fully empty inputs both lack data rows.
		return nil, ErrEmptyInput
	}

	header := records[0]
	data := records[1:]

	if !hasHeaderNames(header) {
		return nil, ErrMissingHeader
	}

	if dup := duplicateNames(header); len(dup) > 0 {
		return nil, &DuplicateColumnsError{Names: dup}
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		values := make([]string, len(data))
		for j, record := range data {
			if i < len(record) {
				values[j] = record[i]
			}
		}
		columns[i] = Column{
			Name: name,
			Type: InferColumnType(values, th),
		}
	}

	rows := make([]Row, len(data))
	for j, record := range data {
		row := make(Row, len(columns))
		for i, col := range columns {
			raw := ""
			if i < len(record) {
				raw = record[i]
			}
			row[col.Name] = ParseValue(raw, col.Type)
		}
		rows[j] = row
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// hasHeaderNames reports whether the header row carries at least one
// non-blank column name.
func hasHeaderNames(header []string) bool {
	for _, name := range header {
		if strings.TrimSpace(name) != "" {
			return true
		}
	}
	return false
}

// duplicateNames returns the sorted set of header names that appear more
// than once, or nil when all names are unique.
func duplicateNames(header []string) []string {
	seen := make(map[string]int, len(header))
	for _, name := range header {
		seen[name]++
	}

	var dup []string
	for name, count := range seen {
		if count > 1 {
			dup = append(dup, name)
		}
	}
	sort.Strings(dup)
	return dup
}
