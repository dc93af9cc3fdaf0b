// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package tabular

import (
	"errors"
	"testing"
)

var testSchema = []Column{
	{Name: "g", Type: Categorical},
	{Name: "m", Type: Continuous},
	{Name: "m2", Type: Continuous},
}

func TestValidatePlan(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		wantUnknown string
		wantRole    string
	}{
		{
			name: "valid request",
			req:  Request{GroupBy: "g", Metrics: []string{"m", "m2"}},
		},
		{
			name: "valid with filters",
			req:  Request{GroupBy: "g", Metrics: []string{"m"}, Filters: []Filter{{Column: "g", Value: "A"}}},
		},
		{
			name:        "unknown group by",
			req:         Request{GroupBy: "missing", Metrics: []string{"m"}},
			wantUnknown: "missing",
		},
		{
			name:     "continuous group by rejected",
			req:      Request{GroupBy: "m", Metrics: []string{"m2"}},
			wantRole: "m",
		},
		{
			name:        "unknown metric",
			req:         Request{GroupBy: "g", Metrics: []string{"nope"}},
			wantUnknown: "nope",
		},
		{
			name:     "categorical metric rejected",
			req:      Request{GroupBy: "g", Metrics: []string{"g"}},
			wantRole: "g",
		},
		{
			name:        "unknown filter column",
			req:         Request{GroupBy: "g", Metrics: []string{"m"}, Filters: []Filter{{Column: "ghost", Value: "x"}}},
			wantUnknown: "ghost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ValidatePlan(testSchema, tt.req)

			switch {
			case tt.wantUnknown != "":
				var unknown *UnknownColumnError
				if !errors.As(err, &unknown) {
					t.Fatalf("error = %v, want UnknownColumnError", err)
				}
				if unknown.Column != tt.wantUnknown {
					t.Errorf("unknown column = %q, want %q", unknown.Column, tt.wantUnknown)
				}
			case tt.wantRole != "":
				var role *ColumnRoleError
				if !errors.As(err, &role) {
					t.Fatalf("error = %v, want ColumnRoleError", err)
				}
				if role.Column != tt.wantRole {
					t.Errorf("role error column = %q, want %q", role.Column, tt.wantRole)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if plan.GroupBy != tt.req.GroupBy {
					t.Errorf("plan group by = %q, want %q", plan.GroupBy, tt.req.GroupBy)
				}
			}
		})
	}
}

func TestValidatePlan_FailsFastOnGroupBy(t *testing.T) {
	// Both group-by and metric are invalid; the group-by check runs first.
	_, err := ValidatePlan(testSchema, Request{GroupBy: "missing", Metrics: []string{"also-missing"}})

	var unknown *UnknownColumnError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownColumnError", err)
	}
	if unknown.Column != "missing" {
		t.Errorf("first failure = %q, want the group-by column", unknown.Column)
	}
}

func mustPlan(t *testing.T, req Request) *Plan {
	t.Helper()
	plan, err := ValidatePlan(testSchema, req)
	if err != nil {
		t.Fatalf("ValidatePlan: %v", err)
	}
	return plan
}

func TestAggregate_GroupsAndStats(t *testing.T) {
	rows := []Row{
		{"g": Text("A"), "m": Number(10)},
		{"g": Text("A"), "m": Number(20)},
		{"g": Text("B"), "m": Number(5)},
	}
	plan := mustPlan(t, Request{GroupBy: "g", Metrics: []string{"m"}})

	results := Aggregate(rows, plan)
	if len(results) != 2 {
		t.Fatalf("got %d groups, want 2", len(results))
	}

	if results[0].GroupValue != "A" || results[1].GroupValue != "B" {
		t.Fatalf("group order = [%s, %s], want [A, B]", results[0].GroupValue, results[1].GroupValue)
	}

	a := results[0].Aggregations["m"]
	if *a.Min != 10 || *a.Max != 20 || *a.Avg != 15 {
		t.Errorf("group A stats = {%v %v %v}, want {10 20 15}", *a.Min, *a.Max, *a.Avg)
	}

	b := results[1].Aggregations["m"]
	if *b.Min != 5 || *b.Max != 5 || *b.Avg != 5 {
		t.Errorf("group B stats = {%v %v %v}, want {5 5 5}", *b.Min, *b.Max, *b.Avg)
	}
}

func TestAggregate_Filters(t *testing.T) {
	rows := []Row{
		{"g": Text("A"), "m": Number(10), "m2": Number(1)},
		{"g": Text("A"), "m": Number(20), "m2": Number(2)},
		{"g": Text("B"), "m": Number(5), "m2": Number(1)},
		{"g": Text("B"), "m": Number(7), "m2": Null()},
	}

	plan := mustPlan(t, Request{
		GroupBy: "g",
		Metrics: []string{"m"},
		Filters: []Filter{{Column: "m2", Value: "1"}},
	})

	results := Aggregate(rows, plan)
	if len(results) != 2 {
		t.Fatalf("got %d groups, want 2", len(results))
	}
	if *results[0].Aggregations["m"].Avg != 10 {
		t.Errorf("group A avg = %v, want 10 (only the m2=1 row)", *results[0].Aggregations["m"].Avg)
	}
	if *results[1].Aggregations["m"].Avg != 5 {
		t.Errorf("group B avg = %v, want 5 (null m2 never matches)", *results[1].Aggregations["m"].Avg)
	}
}

func TestAggregate_NullsNeverMatchFilters(t *testing.T) {
	rows := []Row{
		{"g": Text("A"), "m": Number(10)},
		{"g": Null(), "m": Number(99)},
	}

	plan := mustPlan(t, Request{
		GroupBy: "g",
		Metrics: []string{"m"},
		Filters: []Filter{{Column: "g", Value: "A"}},
	})

	results := Aggregate(rows, plan)
	if len(results) != 1 || results[0].GroupValue != "A" {
		t.Fatalf("results = %+v, want single group A", results)
	}
}

func TestAggregate_NullGroupSentinel(t *testing.T) {
	rows := []Row{
		{"g": Null(), "m": Number(3)},
		{"g": Text("Z"), "m": Number(1)},
		// A genuine "N/A" merges with the null group; documented limitation.
		{"g": Text("N/A"), "m": Number(5)},
	}
	plan := mustPlan(t, Request{GroupBy: "g", Metrics: []string{"m"}})

	results := Aggregate(rows, plan)
	if len(results) != 2 {
		t.Fatalf("got %d groups, want 2", len(results))
	}
	if results[0].GroupValue != NullGroupKey {
		t.Fatalf("first group = %q, want %q", results[0].GroupValue, NullGroupKey)
	}

	na := results[0].Aggregations["m"]
	if *na.Min != 3 || *na.Max != 5 || *na.Avg != 4 {
		t.Errorf("N/A group stats = {%v %v %v}, want {3 5 4}", *na.Min, *na.Max, *na.Avg)
	}
}

func TestAggregate_EmptyMetricGroup(t *testing.T) {
	rows := []Row{
		{"g": Text("A"), "m": Null(), "m2": Number(1)},
		{"g": Text("A"), "m": Null(), "m2": Number(3)},
	}
	plan := mustPlan(t, Request{GroupBy: "g", Metrics: []string{"m", "m2"}})

	results := Aggregate(rows, plan)
	if len(results) != 1 {
		t.Fatalf("got %d groups, want 1", len(results))
	}

	m := results[0].Aggregations["m"]
	if m.Min != nil || m.Max != nil || m.Avg != nil {
		t.Errorf("all-null metric = %+v, want nil statistics", m)
	}

	m2 := results[0].Aggregations["m2"]
	if m2.Avg == nil || *m2.Avg != 2 {
		t.Errorf("m2 avg = %v, want 2", m2.Avg)
	}
}

func TestAggregate_OrderingIsCaseSensitive(t *testing.T) {
	rows := []Row{
		{"g": Text("b"), "m": Number(1)},
		{"g": Text("A"), "m": Number(1)},
		{"g": Text("B"), "m": Number(1)},
	}
	plan := mustPlan(t, Request{GroupBy: "g", Metrics: []string{"m"}})

	results := Aggregate(rows, plan)
	got := []string{results[0].GroupValue, results[1].GroupValue, results[2].GroupValue}
	want := []string{"A", "B", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("group order = %v, want %v", got, want)
		}
	}
}

func TestAggregate_NoMatchingRows(t *testing.T) {
	rows := []Row{{"g": Text("A"), "m": Number(1)}}
	plan := mustPlan(t, Request{
		GroupBy: "g",
		Metrics: []string{"m"},
		Filters: []Filter{{Column: "g", Value: "nope"}},
	})

	if results := Aggregate(rows, plan); len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}
