package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/saadk408/plancheck/internal/plan"
)

func TestAnalyze_SeqScanWithBadEstimate(t *testing.T) {
	qp := plan.QueryPlan{
		Plan: plan.PlanNode{
			NodeType:        "Seq Scan",
			RelationName:    "orders",
			PlanRows:        100,
			ActualRows:      50000,
			ActualTotalTime: 250,
		},
	}

	result := Analyze(qp, "")

	if len(result.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(result.Issues), result.Issues)
	}
	if result.Issues[0].Type != SequentialScan || result.Issues[0].Severity != High {
		t.Errorf("issue 0 = %v %v, want high sequential_scan", result.Issues[0].Type, result.Issues[0].Severity)
	}
	if result.Issues[1].Type != EstimationError || result.Issues[1].Severity != High {
		t.Errorf("issue 1 = %v %v, want high estimation_error", result.Issues[1].Type, result.Issues[1].Severity)
	}

	if result.HealthScore != 60 {
		t.Errorf("health score = %d, want 60", result.HealthScore)
	}

	foundOrders := false
	for _, rec := range result.Recommendations {
		if strings.Contains(rec, "orders") {
			foundOrders = true
		}
	}
	if !foundOrders {
		t.Errorf("recommendations should mention orders: %v", result.Recommendations)
	}
}

func TestAnalyze_SlowSerialQuery(t *testing.T) {
	qp := plan.QueryPlan{
		ExecutionTime: 2000,
		PlanningTime:  100,
		Plan:          plan.PlanNode{NodeType: "Result"},
	}

	result := Analyze(qp, "")

	if len(result.Issues) != 1 {
		t.Fatalf("expected exactly 1 issue, got %d: %v", len(result.Issues), result.Issues)
	}
	if result.Issues[0].Type != MissingParallelism || result.Issues[0].Severity != Medium {
		t.Errorf("issue = %v %v, want medium missing_parallelism", result.Issues[0].Type, result.Issues[0].Severity)
	}
	if result.HealthScore != 90 {
		t.Errorf("health score = %d, want 90", result.HealthScore)
	}
}

func TestAnalyze_SortSpill(t *testing.T) {
	qp := plan.QueryPlan{
		Plan: plan.PlanNode{
			NodeType: "Sort",
			Attrs:    map[string]any{"sortMethod": "external merge"},
		},
	}

	result := Analyze(qp, "")

	if len(result.Issues) != 1 {
		t.Fatalf("expected exactly 1 issue, got %d: %v", len(result.Issues), result.Issues)
	}
	if result.Issues[0].Type != TemporaryFiles || result.Issues[0].Severity != High {
		t.Errorf("issue = %v %v, want high temporary_files", result.Issues[0].Type, result.Issues[0].Severity)
	}
	if result.HealthScore != 80 {
		t.Errorf("health score = %d, want 80", result.HealthScore)
	}
}

func TestAnalyze_DegenerateInput(t *testing.T) {
	result := Analyze(plan.Ingest(nil), "")

	if len(result.Issues) != 0 {
		t.Errorf("expected no issues, got %v", result.Issues)
	}
	if result.HealthScore != 100 {
		t.Errorf("health score = %d, want 100", result.HealthScore)
	}
	if result.Plan.Plan.NodeType != "Unknown" {
		t.Errorf("root = %q, want Unknown", result.Plan.Plan.NodeType)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	qp := plan.QueryPlan{
		ExecutionTime: 2500,
		PlanningTime:  50,
		Plan: plan.PlanNode{
			NodeType:        "Hash Join",
			ActualRows:      20000,
			ActualTotalTime: 1200,
			Children: []plan.PlanNode{
				{NodeType: "Seq Scan", RelationName: "orders", ActualRows: 50000, PlanRows: 100},
				{NodeType: "Sort", Attrs: map[string]any{"sortMethod": "external merge"}},
			},
		},
	}

	first := Analyze(qp, "plan text")
	for i := 0; i < 10; i++ {
		if next := Analyze(qp, "plan text"); !reflect.DeepEqual(first, next) {
			t.Fatalf("analysis not deterministic on run %d:\n%+v\nvs\n%+v", i, first, next)
		}
	}
}

func TestAnalyze_RuleMajorIssueOrder(t *testing.T) {
	// Seq scan under a join: all sequential_scan issues come before all
	// expensive_join issues, regardless of tree position.
	qp := plan.QueryPlan{
		Plan: plan.PlanNode{
			NodeType:        "Hash Join",
			ActualRows:      20000,
			ActualTotalTime: 700,
			Children: []plan.PlanNode{
				{NodeType: "Seq Scan", RelationName: "orders", ActualRows: 5000},
			},
		},
	}

	result := Analyze(qp, "")
	if len(result.Issues) < 2 {
		t.Fatalf("expected at least 2 issues, got %v", result.Issues)
	}
	if result.Issues[0].Type != SequentialScan {
		t.Errorf("first issue = %v, want sequential_scan", result.Issues[0].Type)
	}
	if result.Issues[1].Type != ExpensiveJoin {
		t.Errorf("second issue = %v, want expensive_join", result.Issues[1].Type)
	}
}

func TestAnalyze_PlanTextCarriedNotAnalyzed(t *testing.T) {
	// A plan text full of trigger words must not affect the diagnosis.
	text := "Seq Scan on orders Parallel external merge"
	result := Analyze(plan.QueryPlan{Plan: plan.PlanNode{NodeType: "Result"}}, text)

	if result.PlanText != text {
		t.Errorf("plan text not carried through: %q", result.PlanText)
	}
	if len(result.Issues) != 0 {
		t.Errorf("plan text must never be analyzed, got issues: %v", result.Issues)
	}
}

func TestAnalyze_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.SeqScanRows = 10

	a := &Analyzer{Thresholds: th}
	qp := plan.QueryPlan{
		Plan: plan.PlanNode{NodeType: "Seq Scan", RelationName: "users", ActualRows: 50},
	}

	if result := a.Analyze(qp, ""); len(result.Issues) != 1 {
		t.Errorf("lowered threshold should trigger, got %v", result.Issues)
	}
	if result := New().Analyze(qp, ""); len(result.Issues) != 0 {
		t.Errorf("default threshold should not trigger, got %v", result.Issues)
	}
}

func TestScore_Deductions(t *testing.T) {
	cases := []struct {
		issues []Issue
		want   int
	}{
		{nil, 100},
		{[]Issue{{Severity: Low}}, 95},
		{[]Issue{{Severity: Medium}}, 90},
		{[]Issue{{Severity: High}}, 80},
		{[]Issue{{Severity: Critical}}, 60},
		{[]Issue{{Severity: High}, {Severity: High}, {Severity: Medium}}, 50},
	}

	for _, tc := range cases {
		if got := Score(tc.issues); got != tc.want {
			t.Errorf("Score(%v) = %d, want %d", tc.issues, got, tc.want)
		}
	}
}

func TestScore_ClampsAtZero(t *testing.T) {
	var issues []Issue
	for i := 0; i < 15; i++ {
		issues = append(issues, Issue{Severity: Critical})
	}
	if got := Score(issues); got != 0 {
		t.Errorf("Score with 15 critical issues = %d, want 0", got)
	}
}

func TestAnalyze_ScoreMonotonicUnderAddedIssues(t *testing.T) {
	base := plan.QueryPlan{
		Plan: plan.PlanNode{
			NodeType:     "Seq Scan",
			RelationName: "orders",
			ActualRows:   5000,
		},
	}
	baseScore := Analyze(base, "").HealthScore

	// Same plan plus an extra spilling sort keeps every prior issue and
	// adds one; the score must not increase.
	grown := plan.QueryPlan{
		Plan: plan.PlanNode{
			NodeType: "Sort",
			Attrs:    map[string]any{"sortMethod": "external merge"},
			Children: []plan.PlanNode{base.Plan},
		},
	}
	grownScore := Analyze(grown, "").HealthScore

	if grownScore > baseScore {
		t.Errorf("score increased from %d to %d after adding an anti-pattern", baseScore, grownScore)
	}
}
