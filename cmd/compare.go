package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadk408/plancheck/internal/analyzer"
	"github.com/saadk408/plancheck/internal/comparator"
	"github.com/saadk408/plancheck/internal/config"
	"github.com/saadk408/plancheck/internal/output"
	"github.com/saadk408/plancheck/internal/plan"
)

var compareCmd = &cobra.Command{
	Use:   "compare <file1> <file2>",
	Short: "Compare the diagnoses of two query plans",
	Long: `Diagnose two PostgreSQL query plans and compare the results: health score
delta, timing deltas, and issues resolved or introduced.

Inputs can be SQL files, or JSON files (EXPLAIN output).
Files don't need to be the same type. Either file (but not both) can be "-"
to read from stdin.

For SQL input, a database connection is required to run EXPLAIN (ANALYZE, BUFFERS, FORMAT JSON).`,
	Example: `  # Compare two captured plans
  plancheck compare old.json new.json

  # Use saved profile
  plancheck compare old.sql new.sql --profile prod

  # Mix input types
  plancheck compare prod-plan.json new-query.sql --profile dev`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}
		if args[0] == "-" && args[1] == "-" {
			return fmt.Errorf("only one input can read from stdin")
		}

		connStr, err := config.ResolveConnStr(db, profileName)
		if err != nil {
			return err
		}

		oldPlan, err := plan.Resolve(args[0], connStr, "first ")
		if err != nil {
			return err
		}
		newPlan, err := plan.Resolve(args[1], connStr, "second ")
		if err != nil {
			return err
		}

		cmp := &comparator.Comparator{
			Analyzer: &analyzer.Analyzer{Thresholds: config.LoadThresholds()},
		}
		result := cmp.Compare(oldPlan, newPlan)

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		case "text":
			return output.RenderComparisonText(os.Stdout, result)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("db", "d", "", "PostgreSQL connection string")
	compareCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	compareCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
