package analyzer

import "github.com/saadk408/plancheck/internal/plan"

// Analyzer runs the diagnostic rule battery over captured query plans. The
// zero value is not usable; construct with New. Analyzer holds no per-call
// state, so one instance is safe for concurrent use.
type Analyzer struct {
	Thresholds Thresholds
}

func New() *Analyzer {
	return &Analyzer{Thresholds: DefaultThresholds()}
}

// Analyze produces the full diagnosis for one plan: issues in fixed rule
// order, aggregated recommendations, and the health score. planText is an
// optional display-only rendering carried through untouched.
func (a *Analyzer) Analyze(qp plan.QueryPlan, planText string) AnalysisResult {
	var issues []Issue
	for _, r := range defaultRules {
		issues = append(issues, r(&qp, a.Thresholds)...)
	}

	return AnalysisResult{
		Plan:            qp,
		PlanText:        planText,
		Issues:          issues,
		Recommendations: Recommend(issues, qp.ExecutionTime, a.Thresholds),
		HealthScore:     Score(issues),
	}
}

// Analyze diagnoses a plan with the default thresholds.
func Analyze(qp plan.QueryPlan, planText string) AnalysisResult {
	return New().Analyze(qp, planText)
}

// Score reduces an issue list to a bounded health score: start at 100,
// deduct per severity, clamp to [0,100].
func Score(issues []Issue) int {
	score := 100
	for _, issue := range issues {
		score -= severityDeductions[issue.Severity]
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
