// Package persistence provides SQLite and PostgreSQL implementations of the
// analysis history repository.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/history"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analysis_history (
	id TEXT PRIMARY KEY,
	strategy TEXT NOT NULL,
	task_count INTEGER NOT NULL,
	top_task_title TEXT NOT NULL,
	top_score REAL NOT NULL,
	has_cycles INTEGER NOT NULL DEFAULT 0,
	cycle_paths TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_history_created_at ON analysis_history(created_at DESC);
`

// OpenSQLite opens (or creates) the SQLite history database at path and
// applies the schema. Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return db, nil
}

// SQLiteHistoryRepository implements history.Repository using SQLite.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository creates a new SQLite history repository.
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Save persists one analysis record.
func (r *SQLiteHistoryRepository) Save(ctx context.Context, record *history.Record) error {
	paths, err := json.Marshal(record.CyclePaths)
	if err != nil {
		return fmt.Errorf("failed to encode cycle paths: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_history (id, strategy, task_count, top_task_title, top_score, has_cycles, cycle_paths, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.Strategy,
		record.TaskCount,
		record.TopTaskTitle,
		record.TopScore,
		boolToInt(record.HasCycles),
		string(paths),
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}
	return nil
}

// ListRecent returns the newest records first, at most limit of them.
func (r *SQLiteHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*history.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, strategy, task_count, top_task_title, top_score, has_cycles, cycle_paths, created_at
		FROM analysis_history
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		var (
			id        string
			rec       history.Record
			hasCycles int
			paths     string
			createdAt string
		)
		if err := rows.Scan(&id, &rec.Strategy, &rec.TaskCount, &rec.TopTaskTitle, &rec.TopScore, &hasCycles, &paths, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}

		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q: %w", id, err)
		}
		rec.HasCycles = hasCycles != 0
		if err := json.Unmarshal([]byte(paths), &rec.CyclePaths); err != nil {
			return nil, fmt.Errorf("failed to decode cycle paths: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}

		records = append(records, &rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
