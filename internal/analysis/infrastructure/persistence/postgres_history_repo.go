package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/history"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analysis_history (
	id UUID PRIMARY KEY,
	strategy TEXT NOT NULL,
	task_count INTEGER NOT NULL,
	top_task_title TEXT NOT NULL,
	top_score DOUBLE PRECISION NOT NULL,
	has_cycles BOOLEAN NOT NULL DEFAULT FALSE,
	cycle_paths TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_history_created_at ON analysis_history(created_at DESC);
`

// PostgresHistoryRepository implements history.Repository using PostgreSQL.
type PostgresHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryRepository creates a new PostgreSQL history repository
// and ensures the schema exists.
func NewPostgresHistoryRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresHistoryRepository, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &PostgresHistoryRepository{pool: pool}, nil
}

// Save persists one analysis record.
func (r *PostgresHistoryRepository) Save(ctx context.Context, record *history.Record) error {
	query := `
		INSERT INTO analysis_history (id, strategy, task_count, top_task_title, top_score, has_cycles, cycle_paths, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID, record.Strategy, record.TaskCount, record.TopTaskTitle,
		record.TopScore, record.HasCycles, pq.Array(record.CyclePaths), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}
	return nil
}

// ListRecent returns the newest records first, at most limit of them.
func (r *PostgresHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*history.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, strategy, task_count, top_task_title, top_score, has_cycles, cycle_paths, created_at
		FROM analysis_history
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		var rec history.Record
		if err := rows.Scan(
			&rec.ID, &rec.Strategy, &rec.TaskCount, &rec.TopTaskTitle,
			&rec.TopScore, &rec.HasCycles, pq.Array(&rec.CyclePaths), &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
