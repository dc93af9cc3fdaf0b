// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import "sort"

// NullGroupKey is the sentinel group key for rows whose group-by value is
// null. Known limitation: a genuine data value equal to the literal string
// "N/A" lands in the same group; the source system behaves the same way
// and the ambiguity is deliberately left unresolved.
const NullGroupKey = "N/A"

// Filter is one string-equality condition applied before grouping.
// Filter values always compare against the stored string representation;
// the column's inferred type is not consulted.
type Filter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Request is a caller-supplied aggregation request, validated against a
// dataset schema before execution.
type Request struct {
	GroupBy string   `json:"group_by"`
	Metrics []string `json:"metrics"`
	Filters []Filter `json:"filters"`
}

// Plan is the validated, ready-to-execute form of a Request. Construction
// is isolated from execution so the plan can run either in memory via
// Aggregate or as a database pushdown query.
type Plan struct {
	GroupBy string
	Metrics []string
	Filters []Filter
}

// MetricSummary holds min/max/avg for one metric within one group. All
// three are nil when the group has no non-null values for the metric.
type MetricSummary struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg *float64 `json:"avg"`
}

// GroupResult is one output entry of an aggregation: the group key and a
// summary per requested metric.
type GroupResult struct {
	GroupValue   string                   `json:"group_value"`
	Aggregations map[string]MetricSummary `json:"aggregations"`
}

// ValidatePlan checks an aggregation request against a dataset schema and
// returns the executable plan. Checks run in order and fail fast:
// group-by exists and is categorical, every metric exists and is
// continuous, every filter column exists. Filter values are not
// type-checked; filters are always string equality.
func ValidatePlan(columns []Column, req Request) (*Plan, error) {
	types := make(map[string]ColumnType, len(columns))
	for _, col := range columns {
		types[col.Name] = col.Type
	}

	groupType, ok := types[req.GroupBy]
	if !ok {
		return nil, &UnknownColumnError{Column: req.GroupBy, Role: RoleGroupBy}
	}
	if groupType != Categorical {
		return nil, &ColumnRoleError{Column: req.GroupBy, Role: RoleGroupBy, Type: groupType}
	}

	for _, metric := range req.Metrics {
		metricType, ok := types[metric]
		if !ok {
			return nil, &UnknownColumnError{Column: metric, Role: RoleMetric}
		}
		if metricType != Continuous {
			return nil, &ColumnRoleError{Column: metric, Role: RoleMetric, Type: metricType}
		}
	}

	for _, f := range req.Filters {
		if _, ok := types[f.Column]; !ok {
			return nil, &UnknownColumnError{Column: f.Column, Role: RoleFilter}
		}
	}

	return &Plan{
		GroupBy: req.GroupBy,
		Metrics: req.Metrics,
		Filters: req.Filters,
	}, nil
}

// Aggregate executes a validated plan over in-memory rows.
//
// Rows pass when every filter's column value equals the filter value by
// string representation; a null value never matches. Surviving rows group
// by the group-by value (null rows under NullGroupKey), and each group
// reports min/max/avg per metric over its non-null numbers. Results are
// ordered ascending by group key, case-sensitive.
func Aggregate(rows []Row, plan *Plan) []GroupResult {
	groups := make(map[string][]Row)
	for _, row := range rows {
		if !matchesFilters(row, plan.Filters) {
			continue
		}
		key := groupKey(row[plan.GroupBy])
		groups[key] = append(groups[key], row)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]GroupResult, len(keys))
	for i, key := range keys {
		aggs := make(map[string]MetricSummary, len(plan.Metrics))
		for _, metric := range plan.Metrics {
			aggs[metric] = summarize(groups[key], metric)
		}
		results[i] = GroupResult{GroupValue: key, Aggregations: aggs}
	}
	return results
}

// matchesFilters reports whether a row satisfies every filter condition.
func matchesFilters(row Row, filters []Filter) bool {
	for _, f := range filters {
		v := row[f.Column]
		if v.IsNull() || v.FilterString() != f.Value {
			return false
		}
	}
	return true
}

// groupKey maps a group-by cell to its result key.
func groupKey(v Value) string {
	switch v.Kind() {
	case KindNull:
		return NullGroupKey
	case KindText:
		return v.Text()
	case KindNumber:
		return v.FilterString()
	default:
		return NullGroupKey
	}
}

// summarize computes min/max/avg for one metric over a group's rows,
// skipping null cells. A group with no numeric cells for the metric
// yields nil statistics, not zeros.
func summarize(rows []Row, metric string) MetricSummary {
	var (
		count  int
		sum    float64
		minVal float64
		maxVal float64
	)

	for _, row := range rows {
		v := row[metric]
		if v.Kind() != KindNumber {
			continue
		}
		f := v.Number()
		if count == 0 || f < minVal {
			minVal = f
		}
		if count == 0 || f > maxVal {
			maxVal = f
		}
		sum += f
		count++
	}

	if count == 0 {
		return MetricSummary{}
	}

	avg := sum / float64(count)
	return MetricSummary{Min: &minVal, Max: &maxVal, Avg: &avg}
}
