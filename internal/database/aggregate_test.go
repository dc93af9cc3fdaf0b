// Columnist - Multi-Tenant CSV Analytics Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/columnist

package database

import (
	"context"
	"reflect"
	"testing"

	"github.com/tomtom215/columnist/internal/tabular"
)

// seedDataset stores a table and returns the dataset ID.
func seedDataset(t *testing.T, db *DB, table *tabular.Table) string {
	t.Helper()

	ctx := context.Background()
	tenant, err := db.CreateTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("CreateTenant() error: %v", err)
	}
	dataset, err := db.CreateDataset(ctx, tenant.ID, "data.csv", table)
	if err != nil {
		t.Fatalf("CreateDataset() error: %v", err)
	}
	return dataset.ID
}

func TestAggregateDataset(t *testing.T) {
	db := newTestDB(t)
	datasetID := seedDataset(t, db, testTable())

	plan, err := tabular.ValidatePlan(testTable().Columns, tabular.Request{
		GroupBy: "region",
		Metrics: []string{"revenue"},
	})
	if err != nil {
		t.Fatalf("ValidatePlan() error: %v", err)
	}

	results, err := db.AggregateDataset(context.Background(), datasetID, plan)
	if err != nil {
		t.Fatalf("AggregateDataset() error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("groups = %d, want 3", len(results))
	}

	// Byte-wise ascending: "N/A" < "east" < "west".
	if results[0].GroupValue != "N/A" || results[1].GroupValue != "east" || results[2].GroupValue != "west" {
		t.Fatalf("group order = %q, %q, %q", results[0].GroupValue, results[1].GroupValue, results[2].GroupValue)
	}

	east := results[1].Aggregations["revenue"]
	if east.Min == nil || *east.Min != 100 || east.Max == nil || *east.Max != 200 || east.Avg == nil || *east.Avg != 150 {
		t.Errorf("east revenue = %+v, want min 100 max 200 avg 150", east)
	}

	// west has one numeric row (50) and one null, which is skipped.
	west := results[2].Aggregations["revenue"]
	if west.Min == nil || *west.Min != 50 || *west.Max != 50 || *west.Avg != 50 {
		t.Errorf("west revenue = %+v, want 50 across the board", west)
	}
}

func TestAggregateDatasetWithFilter(t *testing.T) {
	db := newTestDB(t)
	datasetID := seedDataset(t, db, testTable())

	plan, err := tabular.ValidatePlan(testTable().Columns, tabular.Request{
		GroupBy: "region",
		Metrics: []string{"revenue"},
		Filters: []tabular.Filter{{Column: "region", Value: "east"}},
	})
	if err != nil {
		t.Fatalf("ValidatePlan() error: %v", err)
	}

	results, err := db.AggregateDataset(context.Background(), datasetID, plan)
	if err != nil {
		t.Fatalf("AggregateDataset() error: %v", err)
	}

	// The null-region row must not match the filter.
	if len(results) != 1 || results[0].GroupValue != "east" {
		t.Fatalf("results = %+v, want only east", results)
	}
}

func TestAggregateDatasetNoMatches(t *testing.T) {
	db := newTestDB(t)
	datasetID := seedDataset(t, db, testTable())

	plan, err := tabular.ValidatePlan(testTable().Columns, tabular.Request{
		GroupBy: "region",
		Metrics: []string{"revenue"},
		Filters: []tabular.Filter{{Column: "region", Value: "north"}},
	})
	if err != nil {
		t.Fatalf("ValidatePlan() error: %v", err)
	}

	results, err := db.AggregateDataset(context.Background(), datasetID, plan)
	if err != nil {
		t.Fatalf("AggregateDataset() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}

// TestAggregateDatasetMatchesInMemory verifies the pushdown query and
// the in-memory reference produce identical output on a table with
// numeric filters, nulls, and metric-free groups.
func TestAggregateDatasetMatchesInMemory(t *testing.T) {
	table := &tabular.Table{
		Columns: []tabular.Column{
			{Name: "country", Type: tabular.Categorical},
			{Name: "year", Type: tabular.Categorical},
			{Name: "pop", Type: tabular.Continuous},
			{Name: "lifeExp", Type: tabular.Continuous},
		},
		Rows: []tabular.Row{
			{"country": tabular.Text("Afghanistan"), "year": tabular.Text("1952"), "pop": tabular.Number(8425333), "lifeExp": tabular.Number(28.801)},
			{"country": tabular.Text("Afghanistan"), "year": tabular.Text("1957"), "pop": tabular.Number(9240934), "lifeExp": tabular.Number(30.332)},
			{"country": tabular.Text("Albania"), "year": tabular.Text("1952"), "pop": tabular.Number(1282697), "lifeExp": tabular.Null()},
			{"country": tabular.Null(), "year": tabular.Text("1952"), "pop": tabular.Number(100), "lifeExp": tabular.Number(50)},
			{"country": tabular.Text("N/A"), "year": tabular.Text("1952"), "pop": tabular.Number(200), "lifeExp": tabular.Number(60)},
		},
	}

	db := newTestDB(t)
	datasetID := seedDataset(t, db, table)

	requests := []tabular.Request{
		{GroupBy: "country", Metrics: []string{"pop", "lifeExp"}},
		{GroupBy: "country", Metrics: []string{"lifeExp"}, Filters: []tabular.Filter{{Column: "year", Value: "1952"}}},
		{GroupBy: "year", Metrics: []string{"pop"}, Filters: []tabular.Filter{{Column: "country", Value: "Albania"}}},
	}

	for _, req := range requests {
		plan, err := tabular.ValidatePlan(table.Columns, req)
		if err != nil {
			t.Fatalf("ValidatePlan(%+v) error: %v", req, err)
		}

		want := tabular.Aggregate(table.Rows, plan)
		got, err := db.AggregateDataset(context.Background(), datasetID, plan)
		if err != nil {
			t.Fatalf("AggregateDataset(%+v) error: %v", req, err)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("pushdown/in-memory mismatch for %+v:\n got %+v\nwant %+v", req, got, want)
		}
	}
}
