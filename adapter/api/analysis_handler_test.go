package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderSpy struct {
	calls int
	last  *queries.AnalysisResult
}

func (r *recorderSpy) RecordAnalysis(_ context.Context, result *queries.AnalysisResult) {
	r.calls++
	r.last = result
}

func newTestServer(t *testing.T, recorder Recorder) *Server {
	t.Helper()
	handler := NewAnalysisHandler(AnalysisHandlerConfig{Recorder: recorder})
	return NewServer(DefaultServerConfig(), handler, nil)
}

const analyzeBody = `{
	"tasks": [
		{"title": "Fix checkout bug", "due_date": "2026-03-03", "estimated_hours": 3, "importance": 9},
		{"title": "Prepare demo", "due_date": "2026-03-04", "estimated_hours": 2, "importance": 7, "dependencies": [1]},
		{"title": "Write launch email", "due_date": "2026-03-20", "estimated_hours": 1, "importance": 4}
	],
	"today": "2026-03-02"
}`

func TestAnalyzeEndpoint(t *testing.T) {
	t.Run("analyzes a valid batch", func(t *testing.T) {
		spy := &recorderSpy{}
		srv := newTestServer(t, spy)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/analyze", strings.NewReader(analyzeBody))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result queries.AnalysisResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Tasks, 3)
		assert.Equal(t, "Fix checkout bug", result.Tasks[0].Title)
		assert.Equal(t, "BALANCED", result.Strategy)
		assert.Equal(t, 1, spy.calls)
	})

	t.Run("rejects invalid batch with field details", func(t *testing.T) {
		srv := newTestServer(t, nil)

		body := `{"tasks": [{"title": "", "due_date": "soon", "estimated_hours": 0, "importance": 0}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/analyze", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Error   string `json:"error"`
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "invalid task batch", resp.Error)
		assert.Len(t, resp.Details, 4)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		srv := newTestServer(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/analyze", strings.NewReader("{nope"))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects bad today value", func(t *testing.T) {
		srv := newTestServer(t, nil)

		body := `{"tasks": [{"title": "A", "due_date": "2026-03-03", "estimated_hours": 1, "importance": 5}], "today": "yesterday"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/analyze", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty batch is a validation failure", func(t *testing.T) {
		srv := newTestServer(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/analyze", strings.NewReader(`{"tasks": []}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSuggestEndpoint(t *testing.T) {
	t.Run("returns top three with recommendations", func(t *testing.T) {
		srv := newTestServer(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/suggest", strings.NewReader(analyzeBody))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result queries.SuggestionResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.TopTasks, 3)
		assert.Equal(t, 3, result.TotalTasksAnalyzed)
		assert.Contains(t, result.TopTasks[0].Recommendation, "Top priority")
	})

	t.Run("unknown strategy surfaces a warning, not an error", func(t *testing.T) {
		srv := newTestServer(t, nil)

		body := strings.Replace(analyzeBody, `"today"`, `"strategy": "CHAOS", "today"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/suggest", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result queries.SuggestionResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, queries.WarningStrategyFallback, result.Warnings[0].Type)
	})
}

func TestStrategiesEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Strategies []struct {
			Name string `json:"name"`
		} `json:"strategies"`
		Default string `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Strategies, 4)
	assert.Equal(t, "BALANCED", resp.Default)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestDecodeQueryResolvesDefaultDate(t *testing.T) {
	handler := NewAnalysisHandler(AnalysisHandlerConfig{})

	body := `{"tasks": [{"title": "A", "due_date": "2026-03-05", "estimated_hours": 1, "importance": 5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	query, ok := handler.decodeQuery(rec, req)
	require.True(t, ok)
	require.False(t, query.Today.IsZero(), "omitted today must resolve before cache key derivation")

	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), query.Today)

	// Requests scored against different days must never share a cache key.
	tomorrow := query
	tomorrow.Today = query.Today.AddDate(0, 0, 1)
	assert.NotEqual(t, cache.Key(query), cache.Key(tomorrow))
}
