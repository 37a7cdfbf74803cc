package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestBatch() []task.Task {
	return []task.Task{
		{Title: "Migrate database", DueDate: "2026-03-03", EstimatedHours: 4, Importance: 9},
		{Title: "Update docs", DueDate: "2026-03-15", EstimatedHours: 1, Importance: 3},
		{Title: "Release v2", DueDate: "2026-03-05", EstimatedHours: 2, Importance: 8, Dependencies: []int{1}},
		{Title: "Announce release", DueDate: "2026-03-06", EstimatedHours: 0.5, Importance: 5, Dependencies: []int{3}},
		{Title: "Archive old tickets", DueDate: "2026-04-01", EstimatedHours: 6, Importance: 2},
	}
}

func TestSuggestTasks(t *testing.T) {
	handler := NewSuggestTasksHandler(nil)

	t.Run("returns top three with rank specific recommendations", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks: suggestBatch(),
			Today: refDate(),
		})
		require.NoError(t, err)

		require.Len(t, result.TopTasks, 3)
		assert.Equal(t, 5, result.TotalTasksAnalyzed)
		assert.Contains(t, result.TopTasks[0].Recommendation, "Top priority")
		assert.Contains(t, result.TopTasks[1].Recommendation, "Second priority")
		assert.Contains(t, result.TopTasks[2].Recommendation, "Third priority")
	})

	t.Run("flags blocking tasks in the recommendation", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks: suggestBatch(),
			Today: refDate(),
		})
		require.NoError(t, err)

		for _, st := range result.TopTasks {
			if st.Breakdown.Dependency.Raw >= blockingThreshold {
				assert.Contains(t, st.Recommendation, "blocking other tasks")
			} else {
				assert.NotContains(t, st.Recommendation, "blocking other tasks")
			}
		}
	})

	t.Run("fewer than three tasks returns all of them", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks: suggestBatch()[:2],
			Today: refDate(),
		})
		require.NoError(t, err)

		assert.Len(t, result.TopTasks, 2)
		assert.Equal(t, 2, result.TotalTasksAnalyzed)
	})

	t.Run("full ranking is not decorated", func(t *testing.T) {
		analysis := NewAnalyzeTasksHandler()
		suggest := NewSuggestTasksHandler(analysis)

		result, err := suggest.Handle(context.Background(), SuggestTasksQuery{
			Tasks: suggestBatch(),
			Today: refDate(),
		})
		require.NoError(t, err)

		full, err := analysis.Handle(context.Background(), AnalyzeTasksQuery{
			Tasks: suggestBatch(),
			Today: refDate(),
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.TopTasks[0].Recommendation)
		assert.Empty(t, full.Tasks[0].Recommendation)
	})

	t.Run("validation failures propagate", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), SuggestTasksQuery{Today: refDate()})

		var verr *task.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("warnings carry over from analysis", func(t *testing.T) {
		batch := suggestBatch()
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks:    batch,
			Strategy: "NOPE",
			Today:    refDate(),
		})
		require.NoError(t, err)

		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarningStrategyFallback, result.Warnings[0].Type)
		assert.Equal(t, "BALANCED", result.Strategy)
	})
}
