package output

import (
	"fmt"
	"io"

	"github.com/saadk408/plancheck/internal/analyzer"
	"github.com/saadk408/plancheck/internal/comparator"
	"github.com/saadk408/plancheck/internal/history"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func RenderAnalysisText(w io.Writer, result analyzer.AnalysisResult) error {
	tw := &textWriter{w: w}

	tw.printf("%s%sPlan Health%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Health Score:   %s%d/100%s\n", scoreColor(result.HealthScore), result.HealthScore, colorReset)
	if result.Plan.ExecutionTime > 0 {
		tw.printf("  Execution Time: %.3f ms\n", result.Plan.ExecutionTime)
	}
	if result.Plan.PlanningTime > 0 {
		tw.printf("  Planning Time:  %.3f ms\n", result.Plan.PlanningTime)
	}
	tw.printf("\n")

	if len(result.Issues) == 0 {
		tw.printf("%s%sNo issues found.%s\n", colorBold, colorGreen, colorReset)
		return tw.err
	}

	tw.printf("%s%sIssues (%d)%s\n\n", colorBold, colorCyan, len(result.Issues), colorReset)

	for i, issue := range result.Issues {
		label, color := severityFormat(issue.Severity)
		tw.printf("  %s%-8s%s %s\n", color, label, colorReset, issue.Description)
		if issue.Node != "" {
			tw.printf("  %son %s%s\n", colorDim, issue.Node, colorReset)
		}
		if issue.SuggestedFix != "" {
			tw.printf("  %s→ %s%s\n", colorDim, issue.SuggestedFix, colorReset)
		}
		if i < len(result.Issues)-1 {
			tw.printf("\n")
		}
	}

	if len(result.Recommendations) > 0 {
		tw.printf("\n%s%sRecommendations%s\n\n", colorBold, colorCyan, colorReset)
		for _, rec := range result.Recommendations {
			tw.printf("  • %s\n", rec)
		}
	}

	return tw.err
}

func RenderComparisonText(w io.Writer, result comparator.ComparisonResult) error {
	tw := &textWriter{w: w}

	tw.printf("%s%sDiagnosis Comparison%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Health Score:   %d → %d (%+d)\n",
		result.Old.HealthScore, result.New.HealthScore, result.ScoreDelta)
	if result.Old.Plan.ExecutionTime > 0 || result.New.Plan.ExecutionTime > 0 {
		tw.printf("  Execution Time: %.3f ms → %.3f ms (%+.3f ms)\n",
			result.Old.Plan.ExecutionTime, result.New.Plan.ExecutionTime, result.TimeDelta)
	}
	if result.Old.Plan.PlanningTime > 0 || result.New.Plan.PlanningTime > 0 {
		tw.printf("  Planning Time:  %.3f ms → %.3f ms (%+.3f ms)\n",
			result.Old.Plan.PlanningTime, result.New.Plan.PlanningTime, result.PlanningDelta)
	}
	tw.printf("\n")

	if len(result.Deltas) == 0 {
		tw.printf("%s%sNo issues on either side.%s\n", colorBold, colorGreen, colorReset)
		return tw.err
	}

	tw.printf("%s%sIssues by type%s\n\n", colorBold, colorCyan, colorReset)
	for _, d := range result.Deltas {
		marker := colorDim
		switch {
		case d.NewCount < d.OldCount:
			marker = colorGreen
		case d.NewCount > d.OldCount:
			marker = colorRed
		}
		tw.printf("  %s%-20s %d → %d%s\n", marker, d.Type, d.OldCount, d.NewCount, colorReset)
	}

	tw.printf("\n  Resolved: %d, introduced: %d\n", result.Resolved, result.Introduced)

	verdictColor := colorYellow
	switch result.Verdict {
	case comparator.Improved:
		verdictColor = colorGreen
	case comparator.Regressed:
		verdictColor = colorRed
	}
	tw.printf("\n%s%sVerdict: %s%s\n", colorBold, verdictColor, result.Verdict, colorReset)

	return tw.err
}

func RenderHistoryText(w io.Writer, entries []history.Entry) error {
	tw := &textWriter{w: w}

	if len(entries) == 0 {
		tw.printf("No stored analyses.\n")
		return tw.err
	}

	tw.printf("%s%sStored Analyses (%d)%s\n\n", colorBold, colorCyan, len(entries), colorReset)
	for _, e := range entries {
		tw.printf("  %s#%d%s  %s  score %s%d%s  issues %d  %.1f ms\n",
			colorDim, e.ID, colorReset,
			e.CreatedAt.Format("2006-01-02 15:04"),
			scoreColor(e.HealthScore), e.HealthScore, colorReset,
			e.IssueCount, e.ExecutionTimeMs)
		tw.printf("    %s%s%s\n", colorDim, truncate(e.Fingerprint, 100), colorReset)
	}

	return tw.err
}

func severityFormat(s analyzer.Severity) (string, string) {
	switch s {
	case analyzer.Critical:
		return "CRITICAL", colorRed
	case analyzer.High:
		return "HIGH", colorRed
	case analyzer.Medium:
		return "MEDIUM", colorYellow
	default:
		return "LOW", colorCyan
	}
}

func scoreColor(score int) string {
	switch {
	case score >= 80:
		return colorGreen
	case score >= 50:
		return colorYellow
	default:
		return colorRed
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
