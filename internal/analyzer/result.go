package analyzer

import (
	"fmt"

	"github.com/saadk408/plancheck/internal/plan"
)

type Severity int

const (
	Low      Severity = 0
	Medium   Severity = 1
	High     Severity = 2
	Critical Severity = 3
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText keeps severities readable in serialized results.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*s = Low
	case "medium":
		*s = Medium
	case "high":
		*s = High
	case "critical":
		*s = Critical
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// IssueType labels the anti-pattern category an issue belongs to.
type IssueType string

const (
	SequentialScan     IssueType = "sequential_scan"
	ExpensiveJoin      IssueType = "expensive_join"
	EstimationError    IssueType = "estimation_error"
	TemporaryFiles     IssueType = "temporary_files"
	InefficientIndex   IssueType = "inefficient_index"
	MissingParallelism IssueType = "missing_parallelism"
	HighPlanningTime   IssueType = "high_planning_time"
)

// Issue is one detected anti-pattern occurrence.
type Issue struct {
	Type        IssueType `json:"type"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	// Node labels the operator that triggered the issue, e.g.
	// "Seq Scan on orders". Empty for whole-plan issues.
	Node string `json:"node,omitempty"`
	// Relation is the bare relation name, used to group recommendations.
	Relation     string `json:"relation,omitempty"`
	SuggestedFix string `json:"suggestedFix,omitempty"`
}

// AnalysisResult is the complete diagnosis of one query plan.
type AnalysisResult struct {
	Plan plan.QueryPlan `json:"plan"`
	// PlanText is a display-only rendering supplied by the caller; it is
	// never parsed or analyzed.
	PlanText        string   `json:"planText,omitempty"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
	HealthScore     int      `json:"healthScore"`
}
