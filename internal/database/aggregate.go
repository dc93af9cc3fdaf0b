// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/columnist/internal/metrics"
	"github.com/tomtom215/columnist/internal/tabular"
)

// AggregateDataset executes a validated aggregation plan as a pushdown
// query over the JSON row store. The SQL mirrors tabular.Aggregate
// exactly: json_extract_string yields NULL for JSON null, COALESCE maps
// the null group to the "N/A" sentinel, filters are string equality
// that a NULL never satisfies, and ORDER BY on VARCHAR gives the same
// byte-wise ordering as sorting the group keys in memory.
//
// Column names are passed as bound JSON path parameters, never spliced
// into the SQL text.
func (db *DB) AggregateDataset(ctx context.Context, datasetID string, plan *tabular.Plan) ([]tabular.GroupResult, error) {
	var sb strings.Builder
	args := []any{}

	sb.WriteString(`SELECT COALESCE(json_extract_string(row_data, ?), ?) AS group_value`)
	args = append(args, jsonPath(plan.GroupBy), tabular.NullGroupKey)

	for range plan.Metrics {
		sb.WriteString(`,
		MIN(TRY_CAST(json_extract_string(row_data, ?) AS DOUBLE)),
		MAX(TRY_CAST(json_extract_string(row_data, ?) AS DOUBLE)),
		AVG(TRY_CAST(json_extract_string(row_data, ?) AS DOUBLE))`)
	}
	for _, metric := range plan.Metrics {
		path := jsonPath(metric)
		args = append(args, path, path, path)
	}

	sb.WriteString(` FROM dataset_rows WHERE dataset_id = ?`)
	args = append(args, datasetID)

	for _, f := range plan.Filters {
		sb.WriteString(` AND json_extract_string(row_data, ?) = ?`)
		args = append(args, jsonPath(f.Column), f.Value)
	}

	sb.WriteString(` GROUP BY group_value ORDER BY group_value`)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	metrics.RecordDBQuery("aggregate", "dataset_rows", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to execute aggregation: %w", err)
	}
	defer closeQuietly(rows)

	results := []tabular.GroupResult{}
	for rows.Next() {
		var groupValue string
		stats := make([]*float64, 3*len(plan.Metrics))

		dest := make([]any, 0, 1+len(stats))
		dest = append(dest, &groupValue)
		for i := range stats {
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan aggregation row: %w", err)
		}

		aggs := make(map[string]tabular.MetricSummary, len(plan.Metrics))
		for i, metric := range plan.Metrics {
			aggs[metric] = tabular.MetricSummary{
				Min: stats[3*i],
				Max: stats[3*i+1],
				Avg: stats[3*i+2],
			}
		}
		results = append(results, tabular.GroupResult{
			GroupValue:   groupValue,
			Aggregations: aggs,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregation rows: %w", err)
	}

	metrics.RecordAggregation("duckdb", time.Since(start))
	return results, nil
}

// jsonPath builds the JSON path expression for a column name, quoting
// it so names containing dots or brackets address a single key.
func jsonPath(column string) string {
	escaped := strings.ReplaceAll(column, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `$."` + escaped + `"`
}
