// Package cache provides a Redis-backed cache for analysis responses. A
// circuit breaker shields scoring from a degraded Redis: on open circuit
// every lookup is a miss and the engine computes normally.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

const keyPrefix = "triage:analysis:"

// DefaultTTL bounds how long a cached analysis stays valid.
const DefaultTTL = 5 * time.Minute

// AnalysisCache caches AnalysisResult values keyed by a request digest.
type AnalysisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	logger  *slog.Logger
}

// NewAnalysisCache creates a cache around the given Redis client.
func NewAnalysisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *AnalysisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "analysis-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &AnalysisCache{
		client:  client,
		breaker: breaker,
		ttl:     ttl,
		logger:  logger,
	}
}

// Key derives a stable digest for an analyze request. Tasks are hashed in
// input order, so the same batch always produces the same key regardless of
// where the request came from.
func Key(query queries.AnalyzeTasksQuery) string {
	canonical := struct {
		Tasks    any    `json:"tasks"`
		Strategy string `json:"strategy"`
		Today    string `json:"today"`
	}{
		Tasks:    query.Tasks,
		Strategy: query.Strategy,
		Today:    query.Today.Format("2006-01-02"),
	}

	raw, err := json.Marshal(canonical)
	if err != nil {
		// Task batches are plain data; marshaling cannot fail for them.
		return ""
	}
	sum := sha256.Sum256(raw)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result for key, or (nil, false) on miss, open
// circuit, or any Redis failure.
func (c *AnalysisCache) Get(ctx context.Context, key string) (*queries.AnalysisResult, bool) {
	if c.client == nil || key == "" {
		return nil, false
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		c.logger.Debug("analysis cache lookup failed", "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var result queries.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores the result under key. Failures are logged, never returned:
// caching is strictly best effort.
func (c *AnalysisCache) Set(ctx context.Context, key string, result *queries.AnalysisResult) {
	if c.client == nil || key == "" || result == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("failed to encode analysis result for cache", "error", err)
		return
	}

	if _, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, raw, c.ttl).Err()
	}); err != nil {
		c.logger.Debug("analysis cache store failed", "error", err)
	}
}
