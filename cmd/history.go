package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadk408/plancheck/internal/config"
	"github.com/saadk408/plancheck/internal/history"
	"github.com/saadk408/plancheck/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored plan analyses",
	Long: `List analyses stored with 'plancheck analyze --save', most recent first.

With --query, only analyses of queries sharing the given query's
fingerprint are listed.`,
	Example: `  plancheck history
  plancheck history --limit 5
  plancheck history --query "SELECT * FROM users WHERE id = 1"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("query")
		format, _ := cmd.Flags().GetString("format")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		path, err := config.HistoryPath()
		if err != nil {
			return err
		}
		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		var entries []history.Entry
		if query != "" {
			entries, err = store.ByFingerprint(query)
		} else {
			entries, err = store.Recent(limit)
		}
		if err != nil {
			return err
		}

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, entries)
		case "text":
			return output.RenderHistoryText(os.Stdout, entries)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to list")
	historyCmd.Flags().StringP("query", "q", "", "List analyses matching this query's fingerprint")
	historyCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}
