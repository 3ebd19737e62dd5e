package plan

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Capture runs the query under EXPLAIN ANALYZE in a rolled-back transaction
// and returns the canonical plan. The query text is carried on the result
// so callers can fingerprint and persist it alongside the diagnosis.
func Capture(ctx context.Context, dbConn string, sql string) (QueryPlan, error) {
	conn, err := pgx.Connect(ctx, dbConn)
	if err != nil {
		return QueryPlan{}, fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return QueryPlan{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := "EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) " + sql

	var jsonStr string
	if err := tx.QueryRow(ctx, query).Scan(&jsonStr); err != nil {
		return QueryPlan{}, fmt.Errorf("executing EXPLAIN: %w", err)
	}

	qp, err := Decode([]byte(jsonStr))
	if err != nil {
		return QueryPlan{}, err
	}
	qp.Query = sql
	return qp, nil
}
