package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
)

// maxSuggestions is how many top tasks a suggestion returns.
const maxSuggestions = 3

// blockingThreshold is the dependency factor score above which a suggestion
// calls out that the task is blocking others.
const blockingThreshold = 6.0

// SuggestTasksQuery is the input to a suggestion call.
type SuggestTasksQuery struct {
	Tasks    []task.Task
	Strategy string
	Today    time.Time
}

// SuggestionResult is the top-of-ranking slice of an analysis with
// rank-specific recommendations attached.
type SuggestionResult struct {
	TopTasks           []ScoredTask `json:"top_tasks"`
	Strategy           string       `json:"strategy"`
	TotalTasksAnalyzed int          `json:"total_tasks_analyzed"`
	Warnings           []Warning    `json:"warnings"`
	HasCycles          bool         `json:"has_circular_dependencies"`
	CycleDetails       []string     `json:"circular_dependency_details"`
}

// SuggestTasksHandler handles SuggestTasksQuery by delegating to the
// analysis handler and decorating the top of the ranking.
type SuggestTasksHandler struct {
	analyze *AnalyzeTasksHandler
}

// NewSuggestTasksHandler creates a new SuggestTasksHandler.
func NewSuggestTasksHandler(analyze *AnalyzeTasksHandler) *SuggestTasksHandler {
	if analyze == nil {
		analyze = NewAnalyzeTasksHandler()
	}
	return &SuggestTasksHandler{analyze: analyze}
}

// Handle runs the same scoring as Analyze and returns the top three tasks
// with a recommendation per rank.
func (h *SuggestTasksHandler) Handle(ctx context.Context, query SuggestTasksQuery) (*SuggestionResult, error) {
	analysis, err := h.analyze.Handle(ctx, AnalyzeTasksQuery{
		Tasks:    query.Tasks,
		Strategy: query.Strategy,
		Today:    query.Today,
	})
	if err != nil {
		return nil, err
	}

	top := analysis.Tasks
	if len(top) > maxSuggestions {
		top = top[:maxSuggestions]
	}
	// copy so the decorated slice does not alias the full ranking
	topTasks := make([]ScoredTask, len(top))
	copy(topTasks, top)

	for i := range topTasks {
		topTasks[i].Recommendation = recommendation(i+1, topTasks[i])
	}

	return &SuggestionResult{
		TopTasks:           topTasks,
		Strategy:           analysis.Strategy,
		TotalTasksAnalyzed: len(analysis.Tasks),
		Warnings:           analysis.Warnings,
		HasCycles:          analysis.HasCycles,
		CycleDetails:       analysis.CycleDetails,
	}, nil
}

// recommendation builds the rank-specific advice string, flagging tasks
// whose dependency factor shows they are blocking other work.
func recommendation(rank int, t ScoredTask) string {
	var rec string
	switch rank {
	case 1:
		rec = fmt.Sprintf("Top priority: highest score (%.2f/10). Start with this task today.", t.PriorityScore)
	case 2:
		rec = fmt.Sprintf("Second priority (score %.2f/10). Pick this up after the top task.", t.PriorityScore)
	default:
		rec = fmt.Sprintf("Third priority (score %.2f/10). Important to complete soon.", t.PriorityScore)
	}
	if t.Breakdown.Dependency.Raw >= blockingThreshold {
		rec += " This task is blocking other tasks."
	}
	return rec
}
