package cmd

import (
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var Version = "dev"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version
}

var rootCmd = &cobra.Command{
	Use:          "plancheck",
	SilenceUsage: true,
	Short:        "Diagnose PostgreSQL query plans",
	Long: `plancheck is a CLI tool for diagnosing PostgreSQL EXPLAIN plans.

It detects known performance anti-patterns, generates recommendations,
and scores overall plan health on a 0-100 scale. Supports SQL and JSON
input formats.`,
	Example: `  # Diagnose a single query
  plancheck analyze query.sql

  # Compare diagnoses of two plans
  plancheck compare old.json new.json

  # Fingerprint a query for grouping
  plancheck fingerprint query.sql`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
