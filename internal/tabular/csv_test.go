// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCSV_SchemaAndRows(t *testing.T) {
	// Column a: all distinct small integers -> categorical (identifier
	// heuristic). Column b: non-numeric -> categorical.
	table, err := ParseCSV("a,b\n1,x\n2,y\n3,z", DefaultThresholds())
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	wantColumns := []Column{
		{Name: "a", Type: Categorical},
		{Name: "b", Type: Categorical},
	}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Errorf("columns = %+v, want %+v", table.Columns, wantColumns)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}
	if got := table.Rows[0]["a"]; got != Text("1") {
		t.Errorf("rows[0][a] = %#v, want Text(1)", got)
	}
	if got := table.Rows[2]["b"]; got != Text("z") {
		t.Errorf("rows[2][b] = %#v, want Text(z)", got)
	}
}

func TestParseCSV_MixedTypes(t *testing.T) {
	content := "country,year,lifeExp,pop\n" +
		"Afghanistan,1952,28.801,8425333\n" +
		"Afghanistan,1957,30.332,9240934\n" +
		"Albania,1952,55.23,1282697\n"

	table, err := ParseCSV(content, DefaultThresholds())
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	wantColumns := []Column{
		{Name: "country", Type: Categorical},
		{Name: "year", Type: Categorical},
		{Name: "lifeExp", Type: Continuous},
		{Name: "pop", Type: Continuous},
	}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Errorf("columns = %+v, want %+v", table.Columns, wantColumns)
	}

	if got := table.Rows[0]["lifeExp"]; got != Number(28.801) {
		t.Errorf("rows[0][lifeExp] = %#v, want Number(28.801)", got)
	}
	if got := table.Rows[1]["year"]; got != Text("1957") {
		t.Errorf("rows[1][year] = %#v, want Text(1957)", got)
	}
}

func TestParseCSV_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty input", "", ErrEmptyInput},
		{"header only", "a,b\n", ErrEmptyInput},
		{"blank header row", ",,\nx,y,z\n", ErrMissingHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(tt.content, DefaultThresholds())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseCSV(%q) error = %v, want %v", tt.content, err, tt.wantErr)
			}
		})
	}
}

func TestParseCSV_DuplicateColumns(t *testing.T) {
	_, err := ParseCSV("a,a\n1,2", DefaultThresholds())

	var dup *DuplicateColumnsError
	if !errors.As(err, &dup) {
		t.Fatalf("ParseCSV error = %v, want DuplicateColumnsError", err)
	}
	if !reflect.DeepEqual(dup.Names, []string{"a"}) {
		t.Errorf("duplicate names = %v, want [a]", dup.Names)
	}
}

func TestParseCSV_QuotedFields(t *testing.T) {
	content := "name,note\n" +
		"\"Virgin Islands, U.S.\",\"said \"\"hi\"\"\"\n" +
		"\"multi\nline\",plain\n"

	table, err := ParseCSV(content, DefaultThresholds())
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	if got := table.Rows[0]["name"]; got != Text("Virgin Islands, U.S.") {
		t.Errorf("rows[0][name] = %#v", got)
	}
	if got := table.Rows[0]["note"]; got != Text(`said "hi"`) {
		t.Errorf("rows[0][note] = %#v", got)
	}
	if got := table.Rows[1]["name"]; got != Text("multi\nline") {
		t.Errorf("rows[1][name] = %#v", got)
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	// Short rows pad with nulls, long rows drop the overflow.
	table, err := ParseCSV("a,b\nx\ny,2.5,extra\n", DefaultThresholds())
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	if got := table.Rows[0]["b"]; !got.IsNull() {
		t.Errorf("missing cell = %#v, want null", got)
	}
	if got := table.Rows[1]["b"]; got != Number(2.5) {
		t.Errorf("rows[1][b] = %#v, want Number(2.5)", got)
	}
	if _, ok := table.Rows[1]["extra"]; ok {
		t.Error("overflow cell should not create a column")
	}
}

func TestParseCSV_Deterministic(t *testing.T) {
	content := "g,m\nA,10\nB,\nA,20\n"

	first, err := ParseCSV(content, DefaultThresholds())
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseCSV(content, DefaultThresholds())
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}

	if !reflect.DeepEqual(first.Columns, second.Columns) {
		t.Errorf("schemas differ: %+v vs %+v", first.Columns, second.Columns)
	}
	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Errorf("rows differ between identical parses")
	}
}
