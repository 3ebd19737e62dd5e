// Package comparator diffs two plan diagnoses, typically captures of the
// same query before and after an optimization attempt.
package comparator

import (
	"github.com/saadk408/plancheck/internal/analyzer"
	"github.com/saadk408/plancheck/internal/plan"
)

type Direction int

const (
	Unchanged Direction = 0
	Improved  Direction = 1
	Regressed Direction = 2
)

func (d Direction) String() string {
	switch d {
	case Improved:
		return "improved"
	case Regressed:
		return "regressed"
	default:
		return "unchanged"
	}
}

// IssueDelta summarizes how many issues of one type each side produced.
type IssueDelta struct {
	Type     analyzer.IssueType
	OldCount int
	NewCount int
}

type ComparisonResult struct {
	Old analyzer.AnalysisResult
	New analyzer.AnalysisResult

	ScoreDelta int

	TimeDelta     float64
	PlanningDelta float64

	// Deltas lists issue types in old-first-seen then new-first-seen
	// order; only types present on at least one side appear.
	Deltas []IssueDelta

	Resolved   int
	Introduced int

	Verdict Direction
}

type Comparator struct {
	Analyzer *analyzer.Analyzer
}

func New() *Comparator {
	return &Comparator{Analyzer: analyzer.New()}
}

// Compare analyzes both plans and reports the diagnosis-level differences.
func (c *Comparator) Compare(oldPlan, newPlan plan.QueryPlan) ComparisonResult {
	oldRes := c.Analyzer.Analyze(oldPlan, "")
	newRes := c.Analyzer.Analyze(newPlan, "")

	result := ComparisonResult{
		Old:           oldRes,
		New:           newRes,
		ScoreDelta:    newRes.HealthScore - oldRes.HealthScore,
		TimeDelta:     newPlan.ExecutionTime - oldPlan.ExecutionTime,
		PlanningDelta: newPlan.PlanningTime - oldPlan.PlanningTime,
	}

	oldCounts := countByType(oldRes.Issues)
	newCounts := countByType(newRes.Issues)

	for _, t := range typeOrder(oldRes.Issues, newRes.Issues) {
		d := IssueDelta{Type: t, OldCount: oldCounts[t], NewCount: newCounts[t]}
		result.Deltas = append(result.Deltas, d)
		if d.NewCount < d.OldCount {
			result.Resolved += d.OldCount - d.NewCount
		} else {
			result.Introduced += d.NewCount - d.OldCount
		}
	}

	switch {
	case result.ScoreDelta > 0:
		result.Verdict = Improved
	case result.ScoreDelta < 0:
		result.Verdict = Regressed
	default:
		result.Verdict = Unchanged
	}

	return result
}

func countByType(issues []analyzer.Issue) map[analyzer.IssueType]int {
	counts := make(map[analyzer.IssueType]int)
	for _, issue := range issues {
		counts[issue.Type]++
	}
	return counts
}

func typeOrder(oldIssues, newIssues []analyzer.Issue) []analyzer.IssueType {
	seen := make(map[analyzer.IssueType]bool)
	var order []analyzer.IssueType
	for _, issue := range append(append([]analyzer.Issue{}, oldIssues...), newIssues...) {
		if !seen[issue.Type] {
			seen[issue.Type] = true
			order = append(order, issue.Type)
		}
	}
	return order
}
