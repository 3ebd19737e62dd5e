package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Resolve turns CLI input (file path, "-" for stdin, or "" for interactive
// paste) into a canonical QueryPlan. JSON input is ingested directly; SQL
// input is captured through a live connection.
func Resolve(input string, dbConn string, label string) (QueryPlan, error) {
	data, err := readInput(input, label)
	if err != nil {
		return QueryPlan{}, err
	}

	switch detectType(data, input) {
	case "json":
		return Decode(data)
	case "sql":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(strings.ToUpper(trimmed), "EXPLAIN") {
			return QueryPlan{}, fmt.Errorf("input should not include EXPLAIN prefix - provide the raw query only")
		}
		if dbConn == "" {
			return QueryPlan{}, fmt.Errorf("SQL input requires a database connection")
		}
		return Capture(context.Background(), dbConn, trimmed)
	case "text":
		return QueryPlan{}, fmt.Errorf(`text format not supported - use JSON format:

EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) <your query>

Then provide the complete JSON output.`)
	default:
		return QueryPlan{}, fmt.Errorf("unable to detect %sinput type: expected JSON plan, SQL query, or .json/.sql file", label)
	}
}

func readInput(input string, label string) ([]byte, error) {
	switch input {
	case "":
		return readInteractive(label)
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(input)
	}
}

func readInteractive(label string) ([]byte, error) {
	fmt.Printf("Paste %sEXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) output or SQL query", label)
	if runtime.GOOS == "windows" {
		fmt.Print(" (Ctrl+Z, Enter to submit)\n")
	} else {
		fmt.Print(" (Ctrl+D to submit)\n")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))

	if (strings.HasPrefix(trimmed, "[") ||
		strings.HasPrefix(trimmed, "{")) &&
		!json.Valid(data) {
		return nil, fmt.Errorf("input appears truncated; for large inputs use: plancheck analyze <file>")
	}

	return data, nil
}

func detectType(data []byte, filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	}
	if strings.HasSuffix(filename, ".sql") {
		return "sql"
	}
	if strings.HasSuffix(filename, ".txt") {
		return "text"
	}

	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return "json"
	}

	if strings.Contains(trimmed, "(cost=") {
		return "text"
	}

	upper := strings.ToUpper(trimmed)
	for _, prefix := range []string{"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "EXPLAIN"} {
		if strings.HasPrefix(upper, prefix) {
			return "sql"
		}
	}

	return "unknown"
}
