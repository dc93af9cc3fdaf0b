// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Thresholds holds the tunable constants of the type inference heuristic.
// They are surfaced as configuration (INFERENCE_* environment variables)
// rather than hard-coded so the heuristic stays testable.
type Thresholds struct {
	// NumericRatio is the minimum fraction of non-null values that must
	// parse as numbers before a column can be continuous.
	NumericRatio float64

	// UniquenessRatio is the distinct/total fraction above which an
	// all-integer column is treated as an identifier.
	UniquenessRatio float64

	// YearMin and YearMax bound the year-detection range. All-integer
	// columns inside the range are categorical: years group, they do
	// not average.
	YearMin float64
	YearMax float64

	// IDMaxValue caps the identifier heuristic. High-uniqueness integer
	// columns at or above this value (populations, revenues) stay
	// continuous.
	IDMaxValue float64
}

// DefaultThresholds returns the standard inference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NumericRatio:    0.9,
		UniquenessRatio: 0.9,
		YearMin:         1900,
		YearMax:         2100,
		IDMaxValue:      10000,
	}
}

// InferColumnType classifies a column as categorical or continuous from
// all raw string values observed for it, including empty and missing
// entries. The result is deterministic and independent of value order.
//
// Rules, first match wins:
//  1. No non-blank values: categorical.
//  2. Fewer than NumericRatio of the non-blank values parse as floats:
//     categorical.
//  3. All parsed values integral and within [YearMin, YearMax]:
//     categorical (year columns must group, not average).
//  4. Distinct/total above UniquenessRatio, all integral, and the maximum
//     below IDMaxValue: categorical (small high-cardinality integers are
//     identifiers).
//  5. Otherwise: continuous.
func InferColumnType(values []string, th Thresholds) ColumnType {
	nonNull := 0
	var numeric []float64
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		nonNull++
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			numeric = append(numeric, f)
		}
	}

	if nonNull == 0 {
		return Categorical
	}

	if float64(len(numeric))/float64(nonNull) < th.NumericRatio {
		return Categorical
	}

	distinct := make(map[float64]struct{}, len(numeric))
	allIntegers := true
	minVal := numeric[0]
	maxVal := numeric[0]
	for _, f := range numeric {
		distinct[f] = struct{}{}
		if f != math.Trunc(f) {
			allIntegers = false
		}
		if f < minVal {
			minVal = f
		}
		if f > maxVal {
			maxVal = f
		}
	}
	uniqueRatio := float64(len(distinct)) / float64(len(numeric))

	if allIntegers && minVal >= th.YearMin && maxVal <= th.YearMax {
		return Categorical
	}

	if uniqueRatio > th.UniquenessRatio && allIntegers && maxVal < th.IDMaxValue {
		return Categorical
	}

	return Continuous
}

// ParseValue converts one raw CSV cell into a typed Value according to the
// column's inferred type.
//
// Blank cells are null regardless of type. Continuous cells that fail to
// parse as a float degrade to null silently: malformed individual cells
// are tolerated, only structural file errors fail ingestion.
func ParseValue(raw string, t ColumnType) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Null()
	}

	if t == Continuous {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Null()
		}
		return Number(f)
	}

	return Text(trimmed)
}
