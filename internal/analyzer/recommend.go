package analyzer

import (
	"fmt"
	"strings"
)

// recommendationOrder fixes the order advisory groups appear in. Planning
// time issues carry their fix inline and get no group here.
var recommendationOrder = []IssueType{
	SequentialScan,
	EstimationError,
	ExpensiveJoin,
	TemporaryFiles,
	InefficientIndex,
	MissingParallelism,
}

var groupAdvice = map[IssueType]string{
	EstimationError:    "Run ANALYZE to refresh table statistics; the planner's row estimates diverge badly from actuals",
	ExpensiveJoin:      "Review join order and verify join columns are indexed; filter inputs before joining where possible",
	TemporaryFiles:     "Increase work_mem so sorts and hashes stay in memory instead of spilling to disk",
	InefficientIndex:   "Review index definitions against the query predicates; an existing index is doing little work",
	MissingParallelism: "Tune max_parallel_workers_per_gather or restructure the query to allow parallel execution",
}

// Recommend aggregates issues into deduplicated, ordered advice. One
// recommendation is emitted per issue type regardless of how often the type
// fired; sequential scans fold every affected relation into one line.
func Recommend(issues []Issue, executionTimeMs float64, th Thresholds) []string {
	byType := make(map[IssueType][]Issue)
	for _, issue := range issues {
		byType[issue.Type] = append(byType[issue.Type], issue)
	}

	var recs []string
	for _, t := range recommendationOrder {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		if t == SequentialScan {
			recs = append(recs, seqScanAdvice(group))
			continue
		}
		recs = append(recs, groupAdvice[t])
	}

	if executionTimeMs > th.CachingTimeMs {
		recs = append(recs, "Query exceeds one second; consider caching its result at the application layer if staleness is acceptable")
	}

	return recs
}

func seqScanAdvice(group []Issue) string {
	seen := make(map[string]bool)
	var relations []string
	for _, issue := range group {
		if issue.Relation == "" || seen[issue.Relation] {
			continue
		}
		seen[issue.Relation] = true
		relations = append(relations, issue.Relation)
	}
	return fmt.Sprintf("Add indexes to avoid sequential scans on: %s", strings.Join(relations, ", "))
}
