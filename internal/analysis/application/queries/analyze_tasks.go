// Package queries exposes the engine's two operations: full-batch analysis
// and top-task suggestion.
package queries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/application/services"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/graph"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/scoring"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
)

// Warning types surfaced on the non-fatal channel.
const (
	WarningStrategyFallback   = "strategy_fallback"
	WarningCircularDependency = "circular_dependency"
)

// Warning is a non-fatal issue found while analyzing a batch.
type Warning struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// FactorBreakdown is the machine-readable per-factor breakdown for one task.
type FactorBreakdown struct {
	Urgency    services.Contribution `json:"urgency"`
	Importance services.Contribution `json:"importance"`
	Effort     services.Contribution `json:"effort"`
	Dependency services.Contribution `json:"dependency"`
}

// ScoredTask is one input task enriched with its scoring result.
type ScoredTask struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	DueDate        string          `json:"due_date"`
	EstimatedHours float64         `json:"estimated_hours"`
	Importance     int             `json:"importance"`
	Dependencies   []int           `json:"dependencies,omitempty"`
	PriorityScore  float64         `json:"priority_score"`
	Breakdown      FactorBreakdown `json:"score_breakdown"`
	Explanation    string          `json:"score_explanation"`
	PriorityLevel  string          `json:"priority_level"`
	Recommendation string          `json:"recommendation,omitempty"`

	// ordering keys, full precision; not part of the wire contract
	final float64
	due   time.Time
}

// AnalyzeTasksQuery is the input to a full analysis.
type AnalyzeTasksQuery struct {
	Tasks    []task.Task
	Strategy string
	Today    time.Time // zero value means the current date
}

// AnalysisResult is the ranked output of one analysis call.
type AnalysisResult struct {
	Tasks        []ScoredTask `json:"tasks"`
	Warnings     []Warning    `json:"warnings"`
	Strategy     string       `json:"strategy"`
	HasCycles    bool         `json:"has_circular_dependencies"`
	CycleDetails []string     `json:"circular_dependency_details"`
}

// AnalyzeTasksHandler handles AnalyzeTasksQuery. It is stateless and safe
// for concurrent use.
type AnalyzeTasksHandler struct {
	engine *services.Engine
}

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler.
func NewAnalyzeTasksHandler() *AnalyzeTasksHandler {
	return &AnalyzeTasksHandler{engine: services.NewEngine()}
}

// Handle validates the batch, runs the whole-batch dependency analysis, then
// scores and ranks every task. Invalid batches return a *task.ValidationError
// and no scoring runs; non-fatal issues (unknown strategy, cycles) land on
// the warnings channel instead.
func (h *AnalyzeTasksHandler) Handle(_ context.Context, query AnalyzeTasksQuery) (*AnalysisResult, error) {
	tasks := task.AssignIDs(query.Tasks)
	if err := task.ValidateBatch(tasks); err != nil {
		return nil, err
	}

	warnings := []Warning{}

	strat, known := scoring.Lookup(query.Strategy)
	if !known {
		warnings = append(warnings, Warning{
			Type:    WarningStrategyFallback,
			Message: fmt.Sprintf("unknown strategy %q, using %s", query.Strategy, strat.Name),
		})
	}

	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}

	report := graph.Analyze(tasks)
	if report.HasCycles() {
		warnings = append(warnings, Warning{
			Type:    WarningCircularDependency,
			Message: "Circular dependencies detected",
			Details: report.CyclePaths(),
		})
	}

	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		b := h.engine.Score(t, today, report, strat)
		due, _ := t.Due()
		scored = append(scored, ScoredTask{
			ID:             t.ID,
			Title:          t.Title,
			DueDate:        t.DueDate,
			EstimatedHours: t.EstimatedHours,
			Importance:     t.Importance,
			Dependencies:   t.Dependencies,
			PriorityScore:  b.Rounded,
			Breakdown: FactorBreakdown{
				Urgency:    b.Urgency,
				Importance: b.Importance,
				Effort:     b.Effort,
				Dependency: b.Dependency,
			},
			Explanation:   b.Explanation(),
			PriorityLevel: b.Level.String(),
			final:         b.Final,
			due:           due,
		})
	}

	rankTasks(scored)

	return &AnalysisResult{
		Tasks:        scored,
		Warnings:     warnings,
		Strategy:     strat.Name,
		HasCycles:    report.HasCycles(),
		CycleDetails: report.CyclePaths(),
	}, nil
}

// rankTasks sorts by final score descending at full precision. Ties break
// deterministically: earlier due date first, then lower task id.
func rankTasks(tasks []ScoredTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].final != tasks[j].final {
			return tasks[i].final > tasks[j].final
		}
		if !tasks[i].due.Equal(tasks[j].due) {
			return tasks[i].due.Before(tasks[j].due)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
