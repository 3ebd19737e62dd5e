package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/saadk408/plancheck/internal/fingerprint"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint [file]",
	Short: "Print the grouping fingerprint of a SQL query",
	Long: `Normalize a SQL query into its fingerprint: literals are replaced with
placeholders and whitespace is collapsed, so structurally identical queries
produce identical output. Used to group stored analyses.

Use "-" or no argument to read from stdin.`,
	Example: `  plancheck fingerprint query.sql
  echo "SELECT * FROM users WHERE id = 42" | plancheck fingerprint`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		fmt.Println(fingerprint.Query(string(data)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
}
