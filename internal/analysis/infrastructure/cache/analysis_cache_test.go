package cache

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	batch := []task.Task{
		{Title: "A", DueDate: "2026-03-05", EstimatedHours: 1, Importance: 5},
		{Title: "B", DueDate: "2026-03-06", EstimatedHours: 2, Importance: 6},
	}

	t.Run("stable across calls", func(t *testing.T) {
		q := queries.AnalyzeTasksQuery{Tasks: batch, Strategy: "BALANCED", Today: day}
		assert.Equal(t, Key(q), Key(q))
	})

	t.Run("sensitive to task order", func(t *testing.T) {
		a := queries.AnalyzeTasksQuery{Tasks: batch, Today: day}
		b := queries.AnalyzeTasksQuery{Tasks: []task.Task{batch[1], batch[0]}, Today: day}
		assert.NotEqual(t, Key(a), Key(b))
	})

	t.Run("sensitive to strategy and date", func(t *testing.T) {
		base := queries.AnalyzeTasksQuery{Tasks: batch, Strategy: "BALANCED", Today: day}
		other := base
		other.Strategy = "HIGH_IMPACT"
		assert.NotEqual(t, Key(base), Key(other))

		later := base
		later.Today = day.AddDate(0, 0, 1)
		assert.NotEqual(t, Key(base), Key(later))
	})

	t.Run("time of day does not change the key", func(t *testing.T) {
		a := queries.AnalyzeTasksQuery{Tasks: batch, Today: day}
		b := queries.AnalyzeTasksQuery{Tasks: batch, Today: day.Add(11 * time.Hour)}
		assert.Equal(t, Key(a), Key(b))
	})

	t.Run("prefixed for the triage namespace", func(t *testing.T) {
		assert.Contains(t, Key(queries.AnalyzeTasksQuery{Tasks: batch, Today: day}), keyPrefix)
	})
}

func TestCacheWithoutClient(t *testing.T) {
	c := NewAnalysisCache(nil, 0, nil)

	got, ok := c.Get(t.Context(), "triage:analysis:deadbeef")
	assert.False(t, ok)
	assert.Nil(t, got)

	// Set without a client is a no-op, not a panic.
	c.Set(t.Context(), "triage:analysis:deadbeef", &queries.AnalysisResult{})
}

func TestCacheDegradesWhenRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	c := NewAnalysisCache(client, time.Minute, nil)
	key := Key(queries.AnalyzeTasksQuery{
		Tasks: []task.Task{{Title: "A", DueDate: "2026-03-05", EstimatedHours: 1, Importance: 5}},
		Today: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})

	// Every failure is a miss; no error ever reaches the caller. Three
	// consecutive failures trip the breaker, after which lookups keep
	// degrading to misses without touching Redis.
	for i := 0; i < 5; i++ {
		got, ok := c.Get(t.Context(), key)
		assert.False(t, ok, "lookup %d", i)
		assert.Nil(t, got)
	}

	c.Set(t.Context(), key, &queries.AnalysisResult{Strategy: "BALANCED"})

	got, ok := c.Get(t.Context(), key)
	assert.False(t, ok)
	assert.Nil(t, got)
}
