// Package usage records per-call token accounting from the text generator.
// Writes are best-effort: a failed insert is logged, never surfaced, so
// analytics hiccups cannot fail a generation request.
package usage

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mittord/mittord-backend/internal/gen"
)

// Repo provides usage persistence backed by PostgreSQL. It implements the
// orchestrator's UsageRecorder contract.
type Repo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// New creates a new usage repository.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Repo {
	return &Repo{pool: pool, log: logger.With("component", "usage_repo")}
}

const recordSQL = `
INSERT INTO generation_usage (operation, model, input_tokens, output_tokens)
VALUES ($1, $2, $3, $4)`

// Record stores one usage sample.
func (r *Repo) Record(ctx context.Context, op string, u gen.Usage) {
	_, err := r.pool.Exec(ctx, recordSQL, op, u.Model, u.InputTokens, u.OutputTokens)
	if err != nil {
		r.log.WarnContext(ctx, "usage record failed",
			slog.String("operation", op), slog.String("error", err.Error()))
	}
}

// Totals aggregates token usage per operation.
type Totals struct {
	Operation    string
	Calls        int64
	InputTokens  int64
	OutputTokens int64
}

const totalsSQL = `
SELECT operation, COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
FROM generation_usage
GROUP BY operation
ORDER BY operation`

// TotalsByOperation returns aggregate usage for reporting.
func (r *Repo) TotalsByOperation(ctx context.Context) ([]Totals, error) {
	rows, err := r.pool.Query(ctx, totalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Totals
	for rows.Next() {
		var t Totals
		if err := rows.Scan(&t.Operation, &t.Calls, &t.InputTokens, &t.OutputTokens); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
