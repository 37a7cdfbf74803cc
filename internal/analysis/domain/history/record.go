// Package history defines write-only bookkeeping of completed analyses.
// Records summarize one scoring call; the engine itself never reads them.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record summarizes one completed analysis call.
type Record struct {
	ID           uuid.UUID
	Strategy     string
	TaskCount    int
	TopTaskTitle string
	TopScore     float64
	HasCycles    bool
	CyclePaths   []string
	CreatedAt    time.Time
}

// NewRecord builds a record with a fresh id and timestamp.
func NewRecord(strategy string, taskCount int, topTitle string, topScore float64, cyclePaths []string) *Record {
	return &Record{
		ID:           uuid.New(),
		Strategy:     strategy,
		TaskCount:    taskCount,
		TopTaskTitle: topTitle,
		TopScore:     topScore,
		HasCycles:    len(cyclePaths) > 0,
		CyclePaths:   cyclePaths,
		CreatedAt:    time.Now().UTC(),
	}
}

// Repository persists analysis records.
type Repository interface {
	Save(ctx context.Context, record *Record) error
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
