package queries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRankTasks(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("orders by score then due date then id", func(t *testing.T) {
		tasks := []ScoredTask{
			{ID: 1, final: 5.0, due: day(10)},
			{ID: 2, final: 7.0, due: day(12)},
			{ID: 3, final: 7.0, due: day(8)},
			{ID: 5, final: 7.0, due: day(8)},
			{ID: 4, final: 7.0, due: day(8)},
		}

		rankTasks(tasks)

		ids := make([]int, len(tasks))
		for i, tk := range tasks {
			ids[i] = tk.ID
		}
		assert.Equal(t, []int{3, 4, 5, 2, 1}, ids)
	})

	t.Run("full precision decides before rounding would", func(t *testing.T) {
		tasks := []ScoredTask{
			{ID: 1, final: 7.5349, due: day(1)},
			{ID: 2, final: 7.5351, due: day(1)},
		}

		rankTasks(tasks)
		assert.Equal(t, 2, tasks[0].ID)
	})
}
