package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/scoring"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/felixgeelhaar/triage/internal/analysis/infrastructure/cache"
	"github.com/google/uuid"
)

// analysisRequest is the wire payload for both analysis endpoints.
type analysisRequest struct {
	Tasks    []task.Task `json:"tasks"`
	Strategy string      `json:"strategy,omitempty"`
	Today    string      `json:"today,omitempty"` // YYYY-MM-DD, defaults to the current date
}

// Recorder is notified after each successful analysis for bookkeeping
// (history, events). Implementations must be non-blocking best effort.
type Recorder interface {
	RecordAnalysis(ctx context.Context, result *queries.AnalysisResult)
}

// AnalysisHandler handles analysis API requests.
type AnalysisHandler struct {
	analyze  *queries.AnalyzeTasksHandler
	suggest  *queries.SuggestTasksHandler
	cache    *cache.AnalysisCache
	recorder Recorder
	logger   *slog.Logger
}

// AnalysisHandlerConfig holds dependencies for the analysis handler. Cache
// and Recorder are optional.
type AnalysisHandlerConfig struct {
	Analyze  *queries.AnalyzeTasksHandler
	Suggest  *queries.SuggestTasksHandler
	Cache    *cache.AnalysisCache
	Recorder Recorder
	Logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(cfg AnalysisHandlerConfig) *AnalysisHandler {
	if cfg.Analyze == nil {
		cfg.Analyze = queries.NewAnalyzeTasksHandler()
	}
	if cfg.Suggest == nil {
		cfg.Suggest = queries.NewSuggestTasksHandler(cfg.Analyze)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AnalysisHandler{
		analyze:  cfg.Analyze,
		suggest:  cfg.Suggest,
		cache:    cfg.Cache,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

// AnalyzeTasks handles POST /api/v1/tasks/analyze.
func (h *AnalysisHandler) AnalyzeTasks(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New()

	query, ok := h.decodeQuery(w, r)
	if !ok {
		return
	}

	key := cache.Key(query)
	if h.cache != nil {
		if cached, hit := h.cache.Get(r.Context(), key); hit {
			h.logger.Debug("analysis served from cache", "request_id", requestID)
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := h.analyze.Handle(r.Context(), query)
	if err != nil {
		h.writeAnalysisError(w, requestID, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(r.Context(), key, result)
	}
	if h.recorder != nil {
		h.recorder.RecordAnalysis(r.Context(), result)
	}

	h.logger.Info("batch analyzed",
		"request_id", requestID,
		"tasks", len(result.Tasks),
		"strategy", result.Strategy,
		"cycles", result.HasCycles,
	)
	writeJSON(w, http.StatusOK, result)
}

// SuggestTasks handles POST /api/v1/tasks/suggest.
func (h *AnalysisHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New()

	query, ok := h.decodeQuery(w, r)
	if !ok {
		return
	}

	result, err := h.suggest.Handle(r.Context(), queries.SuggestTasksQuery{
		Tasks:    query.Tasks,
		Strategy: query.Strategy,
		Today:    query.Today,
	})
	if err != nil {
		h.writeAnalysisError(w, requestID, err)
		return
	}

	h.logger.Info("suggestions produced",
		"request_id", requestID,
		"tasks", result.TotalTasksAnalyzed,
		"strategy", result.Strategy,
	)
	writeJSON(w, http.StatusOK, result)
}

// ListStrategies handles GET /api/v1/strategies.
func (h *AnalysisHandler) ListStrategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": scoring.Strategies(),
		"default":    scoring.Default().Name,
	})
}

// decodeQuery parses the request body into an analyze query, writing the
// error response itself when the payload is unusable.
func (h *AnalysisHandler) decodeQuery(w http.ResponseWriter, r *http.Request) (queries.AnalyzeTasksQuery, bool) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return queries.AnalyzeTasksQuery{}, false
	}

	// Resolve the effective reference date here rather than leaving it to
	// the engine: the cache key is derived from this query, and an
	// unresolved date would collide requests across calendar days.
	var today time.Time
	if req.Today != "" {
		parsed, err := time.Parse(task.DateLayout, req.Today)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid today, use YYYY-MM-DD")
			return queries.AnalyzeTasksQuery{}, false
		}
		today = parsed
	} else {
		now := time.Now()
		today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	return queries.AnalyzeTasksQuery{
		Tasks:    req.Tasks,
		Strategy: req.Strategy,
		Today:    today,
	}, true
}

// writeAnalysisError maps engine errors: validation failures carry their
// structured field detail, anything else is a 500.
func (h *AnalysisHandler) writeAnalysisError(w http.ResponseWriter, requestID uuid.UUID, err error) {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		h.logger.Debug("batch rejected", "request_id", requestID, "errors", len(verr.Fields))
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid task batch",
			"details": verr.Fields,
		})
		return
	}

	h.logger.Error("analysis failed", "request_id", requestID, "error", err)
	writeError(w, http.StatusInternalServerError, "analysis failed")
}
