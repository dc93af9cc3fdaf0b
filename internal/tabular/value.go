// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// ColumnType classifies how a column's values participate in aggregation.
type ColumnType string

const (
	// Categorical columns are grouped and compared by equality, never averaged.
	Categorical ColumnType = "categorical"

	// Continuous columns hold real numbers eligible for min/max/avg.
	Continuous ColumnType = "continuous"
)

// Column describes one column of a dataset: its header name and inferred type.
// Column descriptors are immutable once a dataset has been created.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// ValueKind discriminates the three variants a cell value can take.
type ValueKind int

const (
	// KindNull marks an absent or unparsable cell.
	KindNull ValueKind = iota

	// KindText marks a categorical string cell.
	KindText

	// KindNumber marks a continuous numeric cell.
	KindNumber
)

// Value is the closed sum type for a single cell: exactly one of
// null, text, or number. The zero Value is null.
//
// Core functions switch exhaustively over Kind(); there is intentionally
// no "unknown" variant.
type Value struct {
	kind   ValueKind
	text   string
	number float64
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// Kind reports which variant this value holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text returns the string payload. Valid only for KindText values;
// returns the empty string otherwise.
func (v Value) Text() string {
	if v.kind != KindText {
		return ""
	}
	return v.text
}

// Number returns the numeric payload. Valid only for KindNumber values;
// returns 0 otherwise.
func (v Value) Number() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.number
}

// FilterString returns the canonical string representation used for
// equality filter comparison. Numbers format exactly as they serialize
// to JSON, so in-memory filtering and the database pushdown (which
// compares against the stored JSON text) agree on every value.
// Null has no filter representation; callers must treat null as never
// matching.
func (v Value) FilterString() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		data, err := json.Marshal(v.number)
		if err != nil {
			return strconv.FormatFloat(v.number, 'g', -1, 64)
		}
		return string(data)
	case KindNull:
		return ""
	default:
		return ""
	}
}

// MarshalJSON encodes the value as JSON null, string, or number.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.number)
	default:
		return nil, fmt.Errorf("tabular: invalid value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes JSON null, string, or number into the matching
// variant. Any other JSON type is an error; rows stored by this system
// only ever contain the three variants.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = Text(t)
	case float64:
		*v = Number(t)
	default:
		return fmt.Errorf("tabular: unsupported cell value of type %T", raw)
	}
	return nil
}

// Row maps column name to cell value. Every row of a dataset carries an
// entry for every column in the schema, possibly null.
type Row map[string]Value

// Table is the result of parsing one CSV file: the ordered column schema
// and the typed rows.
type Table struct {
	Columns []Column
	Rows    []Row
}
