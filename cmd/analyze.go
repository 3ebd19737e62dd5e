package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadk408/plancheck/internal/analyzer"
	"github.com/saadk408/plancheck/internal/config"
	"github.com/saadk408/plancheck/internal/history"
	"github.com/saadk408/plancheck/internal/output"
	"github.com/saadk408/plancheck/internal/plan"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Diagnose a single query plan",
	Long: `Diagnose a single PostgreSQL query plan: detect anti-patterns, generate
recommendations, and compute a health score.

Input can be a SQL file, or JSON file (EXPLAIN output).
Use "-" to read from stdin. If no file is provided, enters interactive mode.

For SQL input, a database connection is required to run EXPLAIN (ANALYZE, BUFFERS, FORMAT JSON).`,
	Example: `  # Analyze from file
  plancheck analyze query.sql

  # Use saved profile
  plancheck analyze query.sql --profile prod

  # Read from stdin and store the result
  cat plan.json | plancheck analyze - --save

  # Interactive mode
  plancheck analyze`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		connStr, err := config.ResolveConnStr(db, profileName)
		if err != nil {
			return err
		}

		var file string
		if len(args) > 0 {
			file = args[0]
		}

		qp, err := plan.Resolve(file, connStr, "")
		if err != nil {
			return err
		}

		eng := &analyzer.Analyzer{Thresholds: config.LoadThresholds()}
		result := eng.Analyze(qp, "")

		if save {
			if err := saveResult(qp.Query, result); err != nil {
				return err
			}
		}

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		case "text":
			return output.RenderAnalysisText(os.Stdout, result)
		}

		return nil
	},
}

func saveResult(query string, result analyzer.AnalysisResult) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(query, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved analysis #%d\n", id)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("db", "d", "", "PostgreSQL connection string")
	analyzeCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	analyzeCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	analyzeCmd.Flags().BoolP("save", "s", false, "Store the result in local history")
	analyzeCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
