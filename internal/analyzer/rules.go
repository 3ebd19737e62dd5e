package analyzer

import (
	"fmt"
	"strings"

	"github.com/saadk408/plancheck/internal/plan"
)

// A rule inspects one plan and emits zero or more issues. Per-node rules
// own a single pre-order traversal each; whole-plan rules read top-level
// fields. Rules are independent, but the battery runs in a fixed order so
// the issue list is deterministic.
type rule func(qp *plan.QueryPlan, th Thresholds) []Issue

var defaultRules = []rule{
	checkSequentialScans,
	checkExpensiveJoins,
	checkEstimationErrors,
	checkTemporaryFiles,
	checkInefficientIndexes,
	checkMissingParallelism,
	checkHighPlanningTime,
}

// walk visits the tree in pre-order: node first, then children in their
// original execution order. Every per-node rule traverses through here so
// all analyzers see nodes in the same sequence.
func walk(node *plan.PlanNode, visit func(*plan.PlanNode)) {
	visit(node)
	for i := range node.Children {
		walk(&node.Children[i], visit)
	}
}

func checkSequentialScans(qp *plan.QueryPlan, th Thresholds) []Issue {
	var issues []Issue
	walk(&qp.Plan, func(n *plan.PlanNode) {
		if n.NodeType != "Seq Scan" || n.RelationName == "" {
			return
		}
		if n.ActualRows <= th.SeqScanRows && n.ActualTotalTime <= th.SeqScanTimeMs {
			return
		}

		severity := Medium
		if n.ActualRows > th.SeqScanHighRows {
			severity = High
		}

		issues = append(issues, Issue{
			Type:     SequentialScan,
			Severity: severity,
			Node:     n.Label(),
			Relation: n.RelationName,
			Description: fmt.Sprintf("Sequential scan on %s read %d rows in %.1fms",
				n.RelationName, n.ActualRows, n.ActualTotalTime),
			SuggestedFix: fmt.Sprintf("Add an index on %s covering the filter or join condition", n.RelationName),
		})
	})
	return issues
}

func checkExpensiveJoins(qp *plan.QueryPlan, th Thresholds) []Issue {
	var issues []Issue
	walk(&qp.Plan, func(n *plan.PlanNode) {
		if !strings.Contains(n.NodeType, "Join") {
			return
		}
		if n.ActualRows <= th.JoinRows && n.ActualTotalTime <= th.JoinTimeMs {
			return
		}

		severity := Medium
		if n.ActualTotalTime > th.JoinHighTimeMs {
			severity = High
		}

		issues = append(issues, Issue{
			Type:     ExpensiveJoin,
			Severity: severity,
			Node:     n.Label(),
			Relation: n.RelationName,
			Description: fmt.Sprintf("%s produced %d rows in %.1fms",
				n.NodeType, n.ActualRows, n.ActualTotalTime),
			SuggestedFix: "Ensure join columns are indexed and join inputs are filtered as early as possible",
		})
	})
	return issues
}

func checkEstimationErrors(qp *plan.QueryPlan, th Thresholds) []Issue {
	var issues []Issue
	walk(&qp.Plan, func(n *plan.PlanNode) {
		// A zero value means the statistic was absent from the capture.
		if n.PlanRows <= 0 || n.ActualRows <= 0 {
			return
		}

		ratio := float64(n.ActualRows) / float64(n.PlanRows)
		if ratio <= th.EstimateRatio && ratio >= 1/th.EstimateRatio {
			return
		}

		severity := Medium
		if ratio > th.EstimateHighRatio || ratio < 1/th.EstimateHighRatio {
			severity = High
		}

		issues = append(issues, Issue{
			Type:     EstimationError,
			Severity: severity,
			Node:     n.Label(),
			Relation: n.RelationName,
			Description: fmt.Sprintf("%s estimated %d rows but produced %d (ratio %.2f)",
				n.NodeType, n.PlanRows, n.ActualRows, ratio),
			SuggestedFix: "Run ANALYZE on the involved tables to refresh planner statistics",
		})
	})
	return issues
}

func checkTemporaryFiles(qp *plan.QueryPlan, th Thresholds) []Issue {
	var issues []Issue
	walk(&qp.Plan, func(n *plan.PlanNode) {
		if n.Attr("sortMethod") != "external merge" && !n.HasAttr("sortSpaceUsed") {
			return
		}

		desc := fmt.Sprintf("%s used temporary files", n.Label())
		if method := n.Attr("sortMethod"); method != "" {
			desc = fmt.Sprintf("%s sorted with method %q", n.Label(), method)
		}

		issues = append(issues, Issue{
			Type:         TemporaryFiles,
			Severity:     High,
			Node:         n.Label(),
			Relation:     n.RelationName,
			Description:  desc,
			SuggestedFix: "Increase work_mem so the operation fits in memory",
		})
	})
	return issues
}

func checkInefficientIndexes(qp *plan.QueryPlan, th Thresholds) []Issue {
	var issues []Issue
	walk(&qp.Plan, func(n *plan.PlanNode) {
		if n.NodeType != "Index Scan" && n.NodeType != "Index Only Scan" {
			return
		}
		if n.RelationName == "" || n.Attr("indexName") == "" {
			return
		}
		if n.ActualRows >= th.IndexActualRows || n.PlanRows <= th.IndexPlanRows {
			return
		}

		issues = append(issues, Issue{
			Type:     InefficientIndex,
			Severity: Medium,
			Node:     n.Label(),
			Relation: n.RelationName,
			Description: fmt.Sprintf("%s using %s returned %d rows against an estimate of %d",
				n.Label(), n.Attr("indexName"), n.ActualRows, n.PlanRows),
			SuggestedFix: "Check whether the index matches the query predicates; statistics may be stale",
		})
	})
	return issues
}

func checkMissingParallelism(qp *plan.QueryPlan, th Thresholds) []Issue {
	if qp.ExecutionTime <= th.ParallelismTimeMs {
		return nil
	}

	parallel := false
	walk(&qp.Plan, func(n *plan.PlanNode) {
		if strings.Contains(n.NodeType, "Parallel") {
			parallel = true
		}
	})
	if parallel {
		return nil
	}

	return []Issue{{
		Type:     MissingParallelism,
		Severity: Medium,
		Description: fmt.Sprintf("Query ran for %.1fms without any parallel operator",
			qp.ExecutionTime),
		SuggestedFix: "Check max_parallel_workers_per_gather and whether the query shape permits parallelism",
	}}
}

func checkHighPlanningTime(qp *plan.QueryPlan, th Thresholds) []Issue {
	if qp.PlanningTime <= th.PlanningTimeFraction*qp.ExecutionTime {
		return nil
	}

	return []Issue{{
		Type:     HighPlanningTime,
		Severity: Medium,
		Description: fmt.Sprintf("Planning took %.1fms against %.1fms execution",
			qp.PlanningTime, qp.ExecutionTime),
		SuggestedFix: "Consider prepared statements to amortize planning cost",
	}}
}
