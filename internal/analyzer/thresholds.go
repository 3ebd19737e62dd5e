package analyzer

// Thresholds holds the numeric cutoffs the rules compare against. The
// defaults are hand-picked heuristics carried over from production use;
// they are exposed as a value rather than constants so deployments can
// tune them without a rebuild.
type Thresholds struct {
	// Sequential scan
	SeqScanRows     int64   `yaml:"seq_scan_rows"`
	SeqScanTimeMs   float64 `yaml:"seq_scan_time_ms"`
	SeqScanHighRows int64   `yaml:"seq_scan_high_rows"`

	// Join
	JoinRows       int64   `yaml:"join_rows"`
	JoinTimeMs     float64 `yaml:"join_time_ms"`
	JoinHighTimeMs float64 `yaml:"join_high_time_ms"`

	// Row estimation
	EstimateRatio     float64 `yaml:"estimate_ratio"`
	EstimateHighRatio float64 `yaml:"estimate_high_ratio"`

	// Inefficient index
	IndexActualRows int64 `yaml:"index_actual_rows"`
	IndexPlanRows   int64 `yaml:"index_plan_rows"`

	// Whole-plan
	ParallelismTimeMs    float64 `yaml:"parallelism_time_ms"`
	PlanningTimeFraction float64 `yaml:"planning_time_fraction"`

	// Recommendation
	CachingTimeMs float64 `yaml:"caching_time_ms"`
}

// DefaultThresholds returns the calibration every Analyzer starts from.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SeqScanRows:     1000,
		SeqScanTimeMs:   100,
		SeqScanHighRows: 10000,

		JoinRows:       10000,
		JoinTimeMs:     500,
		JoinHighTimeMs: 1000,

		EstimateRatio:     10,
		EstimateHighRatio: 100,

		IndexActualRows: 10,
		IndexPlanRows:   1000,

		ParallelismTimeMs:    1000,
		PlanningTimeFraction: 0.5,

		CachingTimeMs: 1000,
	}
}

// severityDeductions maps severity to the health score deduction per issue.
var severityDeductions = map[Severity]int{
	Low:      5,
	Medium:   10,
	High:     20,
	Critical: 40,
}
