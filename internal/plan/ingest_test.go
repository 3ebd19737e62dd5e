package plan

import (
	"testing"
)

func TestDecode_FullExplainDocument(t *testing.T) {
	input := `[{
		"Plan": {
			"Node Type": "Hash Join",
			"Startup Cost": 11.25,
			"Total Cost": 250.50,
			"Plan Rows": 5000,
			"Plan Width": 16,
			"Actual Startup Time": 1.2,
			"Actual Total Time": 80.4,
			"Actual Rows": 4800,
			"Actual Loops": 1,
			"Hash Cond": "(o.user_id = u.id)",
			"Plans": [
				{
					"Node Type": "Seq Scan",
					"Relation Name": "orders",
					"Plan Rows": 4000,
					"Actual Rows": 4800,
					"Actual Loops": 1
				},
				{
					"Node Type": "Sort",
					"Sort Method": "external merge",
					"Sort Space Used": 2048,
					"Plan Rows": 1000,
					"Actual Rows": 1000,
					"Actual Loops": 1
				}
			]
		},
		"Planning Time": 0.085,
		"Execution Time": 120.5
	}]`

	qp, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if qp.PlanningTime != 0.085 {
		t.Errorf("PlanningTime = %f, want 0.085", qp.PlanningTime)
	}
	if qp.ExecutionTime != 120.5 {
		t.Errorf("ExecutionTime = %f, want 120.5", qp.ExecutionTime)
	}

	root := qp.Plan
	if root.NodeType != "Hash Join" {
		t.Errorf("NodeType = %q, want %q", root.NodeType, "Hash Join")
	}
	if root.StartupCost != 11.25 {
		t.Errorf("StartupCost = %f, want 11.25", root.StartupCost)
	}
	if root.TotalCost != 250.50 {
		t.Errorf("TotalCost = %f, want 250.50", root.TotalCost)
	}
	if root.PlanRows != 5000 {
		t.Errorf("PlanRows = %d, want 5000", root.PlanRows)
	}
	if root.PlanWidth != 16 {
		t.Errorf("PlanWidth = %d, want 16", root.PlanWidth)
	}
	if root.ActualTotalTime != 80.4 {
		t.Errorf("ActualTotalTime = %f, want 80.4", root.ActualTotalTime)
	}
	if root.ActualRows != 4800 {
		t.Errorf("ActualRows = %d, want 4800", root.ActualRows)
	}

	if got := root.Attr("hashCond"); got != "(o.user_id = u.id)" {
		t.Errorf("hashCond attr = %q, want the join condition", got)
	}

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if root.Children[0].NodeType != "Seq Scan" || root.Children[1].NodeType != "Sort" {
		t.Errorf("children out of order: %q, %q", root.Children[0].NodeType, root.Children[1].NodeType)
	}
	if root.Children[0].RelationName != "orders" {
		t.Errorf("RelationName = %q, want orders", root.Children[0].RelationName)
	}

	sort := root.Children[1]
	if got := sort.Attr("sortMethod"); got != "external merge" {
		t.Errorf("sortMethod attr = %q, want %q", got, "external merge")
	}
	if !sort.HasAttr("sortSpaceUsed") {
		t.Error("expected sortSpaceUsed attr to be present")
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("not json at all {")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestIngest_DegenerateInputs(t *testing.T) {
	inputs := map[string]any{
		"nil":          nil,
		"empty array":  []any{},
		"string":       "SELECT 1",
		"number":       42.0,
		"empty object": map[string]any{},
	}

	for name, raw := range inputs {
		qp := Ingest(raw)
		if qp.Plan.NodeType != "Unknown" {
			t.Errorf("%s: root NodeType = %q, want Unknown", name, qp.Plan.NodeType)
		}
		if qp.ExecutionTime != 0 || qp.PlanningTime != 0 {
			t.Errorf("%s: expected zero timings, got %f/%f", name, qp.ExecutionTime, qp.PlanningTime)
		}
	}
}

func TestIngest_ObjectWithoutArrayWrapper(t *testing.T) {
	raw := map[string]any{
		"Plan": map[string]any{
			"Node Type":     "Seq Scan",
			"Relation Name": "users",
		},
		"Execution Time": 10.0,
	}

	qp := Ingest(raw)
	if qp.Plan.NodeType != "Seq Scan" {
		t.Errorf("NodeType = %q, want Seq Scan", qp.Plan.NodeType)
	}
	if qp.ExecutionTime != 10.0 {
		t.Errorf("ExecutionTime = %f, want 10.0", qp.ExecutionTime)
	}
}

func TestIngest_BareNodeTree(t *testing.T) {
	raw := map[string]any{
		"nodeType":     "Index Scan",
		"relationName": "users",
		"actualRows":   5.0,
	}

	qp := Ingest(raw)
	if qp.Plan.NodeType != "Index Scan" {
		t.Errorf("NodeType = %q, want Index Scan", qp.Plan.NodeType)
	}
	if qp.Plan.ActualRows != 5 {
		t.Errorf("ActualRows = %d, want 5", qp.Plan.ActualRows)
	}
}

func TestIngest_CanonicalKeysAndNestedAttrs(t *testing.T) {
	raw := map[string]any{
		"plan": map[string]any{
			"nodeType": "Sort",
			"attrs": map[string]any{
				"sortMethod": "external merge",
			},
			"children": []any{
				map[string]any{"nodeType": "Seq Scan", "relationName": "a"},
			},
		},
		"executionTime": 50.0,
		"planningTime":  1.0,
	}

	qp := Ingest(raw)
	if qp.Plan.NodeType != "Sort" {
		t.Errorf("NodeType = %q, want Sort", qp.Plan.NodeType)
	}
	if got := qp.Plan.Attr("sortMethod"); got != "external merge" {
		t.Errorf("sortMethod = %q, want external merge", got)
	}
	if len(qp.Plan.Children) != 1 || qp.Plan.Children[0].RelationName != "a" {
		t.Errorf("children not ingested: %+v", qp.Plan.Children)
	}
}

func TestIngest_NodeWithoutType(t *testing.T) {
	raw := map[string]any{
		"Plan": map[string]any{"Relation Name": "users"},
	}

	qp := Ingest(raw)
	if qp.Plan.NodeType != "Unknown" {
		t.Errorf("NodeType = %q, want Unknown", qp.Plan.NodeType)
	}
}

func TestIngest_WarningsAndQuery(t *testing.T) {
	raw := map[string]any{
		"Plan":     map[string]any{"Node Type": "Result"},
		"Query":    "SELECT 1",
		"Warnings": []any{"statistics may be stale"},
	}

	qp := Ingest(raw)
	if qp.Query != "SELECT 1" {
		t.Errorf("Query = %q, want SELECT 1", qp.Query)
	}
	if len(qp.Warnings) != 1 || qp.Warnings[0] != "statistics may be stale" {
		t.Errorf("Warnings = %v", qp.Warnings)
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Node Type":         "nodeType",
		"Sort Method":       "sortMethod",
		"sort_method":       "sortMethod",
		"sortMethod":        "sortMethod",
		"Filter":            "filter",
		"Index Name":        "indexName",
		"Actual Total Time": "actualTotalTime",
	}

	for in, want := range cases {
		if got := normalizeKey(in); got != want {
			t.Errorf("normalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
