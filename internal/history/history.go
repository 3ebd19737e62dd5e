// Package history persists analysis results so past diagnoses can be
// grouped and revisited. Results are keyed by query fingerprint; the engine
// itself never touches this store.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/saadk408/plancheck/internal/analyzer"
	"github.com/saadk408/plancheck/internal/fingerprint"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL,
	query TEXT NOT NULL,
	health_score INTEGER NOT NULL,
	issue_count INTEGER NOT NULL,
	execution_time_ms REAL NOT NULL,
	result TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_fingerprint ON analyses (fingerprint);
`

// Entry is one stored analysis row. Result is decoded lazily via Load to
// keep listings cheap.
type Entry struct {
	ID              int64
	Fingerprint     string
	Query           string
	HealthScore     int
	IssueCount      int
	ExecutionTimeMs float64
	CreatedAt       time.Time

	resultJSON string
}

// Load decodes the stored AnalysisResult.
func (e *Entry) Load() (analyzer.AnalysisResult, error) {
	var res analyzer.AnalysisResult
	if err := json.Unmarshal([]byte(e.resultJSON), &res); err != nil {
		return analyzer.AnalysisResult{}, fmt.Errorf("decoding stored result %d: %w", e.ID, err)
	}
	return res, nil
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores one analysis together with the original query text and its
// fingerprint, and returns the row id.
func (s *Store) Save(query string, res analyzer.AnalysisResult) (int64, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("encoding result: %w", err)
	}

	out, err := s.db.Exec(
		`INSERT INTO analyses (fingerprint, query, health_score, issue_count, execution_time_ms, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fingerprint.Query(query),
		query,
		res.HealthScore,
		len(res.Issues),
		res.Plan.ExecutionTime,
		string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("saving analysis: %w", err)
	}
	return out.LastInsertId()
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	return s.query(
		`SELECT id, fingerprint, query, health_score, issue_count, execution_time_ms, result, created_at
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
}

// ByFingerprint returns every stored analysis of queries sharing the given
// query's fingerprint, most recent first.
func (s *Store) ByFingerprint(query string) ([]Entry, error) {
	return s.query(
		`SELECT id, fingerprint, query, health_score, issue_count, execution_time_ms, result, created_at
		 FROM analyses WHERE fingerprint = ? ORDER BY id DESC`, fingerprint.Query(query))
}

func (s *Store) query(q string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Fingerprint, &e.Query, &e.HealthScore,
			&e.IssueCount, &e.ExecutionTimeMs, &e.resultJSON, &created); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
