// Package app wires the engine, optional infrastructure, and adapters.
package app

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/history"
	"github.com/felixgeelhaar/triage/internal/analysis/infrastructure/cache"
	"github.com/felixgeelhaar/triage/internal/analysis/infrastructure/persistence"
	"github.com/felixgeelhaar/triage/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"database/sql"
)

// Container holds the wired application. The query handlers always work;
// history, cache, and events are optional and nil when not configured.
type Container struct {
	AnalyzeHandler *queries.AnalyzeTasksHandler
	SuggestHandler *queries.SuggestTasksHandler

	HistoryRepo history.Repository
	Cache       *cache.AnalysisCache
	Publisher   eventbus.Publisher

	logger   *slog.Logger
	sqliteDB *sql.DB
	pgPool   *pgxpool.Pool
	redis    *redis.Client
}

// NewContainer builds the application from configuration. Infrastructure
// that fails to come up is logged and skipped: the engine itself needs
// nothing but the request.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	analyze := queries.NewAnalyzeTasksHandler()
	c := &Container{
		AnalyzeHandler: analyze,
		SuggestHandler: queries.NewSuggestTasksHandler(analyze),
		// local mode: events stay in process until a broker is configured
		Publisher: eventbus.NewInProcessBus(logger),
		logger:    logger,
	}

	if cfg.HistoryEnabled {
		c.initHistory(ctx, cfg)
	}

	if cfg.RedisURL != "" {
		if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
			logger.Warn("invalid REDIS_URL, response cache disabled", "error", err)
		} else {
			c.redis = redis.NewClient(opts)
			c.Cache = cache.NewAnalysisCache(c.redis, cfg.CacheTTL, logger)
			logger.Info("response cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events disabled", "error", err)
			c.Publisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.Publisher = pub
		}
	}

	return c, nil
}

func (c *Container) initHistory(ctx context.Context, cfg *config.Config) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			repo, rerr := persistence.NewPostgresHistoryRepository(ctx, pool)
			if rerr == nil {
				c.pgPool = pool
				c.HistoryRepo = repo
				c.logger.Info("analysis history enabled", "backend", "postgres")
				return
			}
			pool.Close()
			err = rerr
		}
		c.logger.Warn("postgres history unavailable, falling back to sqlite", "error", err)
	}

	db, err := persistence.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		c.logger.Warn("sqlite history unavailable, history disabled", "error", err)
		return
	}
	c.sqliteDB = db
	c.HistoryRepo = persistence.NewSQLiteHistoryRepository(db)
	c.logger.Info("analysis history enabled", "backend", "sqlite", "path", cfg.SQLitePath)
}

// RecordAnalysis saves a history record and publishes the completion event.
// Both are best effort; analysis results are never blocked on bookkeeping.
func (c *Container) RecordAnalysis(ctx context.Context, result *queries.AnalysisResult) {
	var topTitle string
	var topScore float64
	if len(result.Tasks) > 0 {
		topTitle = result.Tasks[0].Title
		topScore = result.Tasks[0].PriorityScore
	}

	if c.HistoryRepo != nil {
		rec := history.NewRecord(result.Strategy, len(result.Tasks), topTitle, topScore, result.CycleDetails)
		if err := c.HistoryRepo.Save(ctx, rec); err != nil {
			c.logger.Warn("failed to record analysis", "error", err)
		}
	}

	event := eventbus.NewEvent(eventbus.RoutingKeyAnalysisCompleted, eventbus.AnalysisCompleted{
		Strategy:     result.Strategy,
		TaskCount:    len(result.Tasks),
		TopTaskTitle: topTitle,
		TopScore:     topScore,
		HasCycles:    result.HasCycles,
	})
	if err := c.Publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("failed to publish analysis event", "error", err)
	}
}

// Close releases all held resources.
func (c *Container) Close() {
	if err := c.Publisher.Close(); err != nil {
		c.logger.Warn("error closing publisher", "error", err)
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warn("error closing redis client", "error", err)
		}
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
	if c.sqliteDB != nil {
		if err := c.sqliteDB.Close(); err != nil {
			c.logger.Warn("error closing sqlite database", "error", err)
		}
	}
}
