// Package mcp exposes task prioritization as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/scoring"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/felixgeelhaar/triage/internal/app"
)

const dateLayout = "2006-01-02"

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *app.Container
}

type analyzeInput struct {
	Tasks    []task.Task `json:"tasks" jsonschema:"required"`
	Strategy string      `json:"strategy,omitempty"`
	Today    string      `json:"today,omitempty"`
}

// RegisterTools registers the tasks.analyze and tasks.suggest tools plus a
// strategy listing tool mirroring the HTTP API.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}
	a := deps.App

	srv.Tool("tasks.analyze").
		Description("Score and rank a batch of tasks by priority").
		Handler(func(ctx context.Context, input analyzeInput) (*queries.AnalysisResult, error) {
			today, err := parseDate(input.Today, time.Now())
			if err != nil {
				return nil, err
			}

			result, err := a.AnalyzeHandler.Handle(ctx, queries.AnalyzeTasksQuery{
				Tasks:    input.Tasks,
				Strategy: input.Strategy,
				Today:    today,
			})
			if err != nil {
				return nil, err
			}

			a.RecordAnalysis(ctx, result)
			return result, nil
		})

	srv.Tool("tasks.suggest").
		Description("Suggest the top three tasks to work on next").
		Handler(func(ctx context.Context, input analyzeInput) (*queries.SuggestionResult, error) {
			today, err := parseDate(input.Today, time.Now())
			if err != nil {
				return nil, err
			}

			return a.SuggestHandler.Handle(ctx, queries.SuggestTasksQuery{
				Tasks:    input.Tasks,
				Strategy: input.Strategy,
				Today:    today,
			})
		})

	srv.Tool("tasks.strategies").
		Description("List the available scoring strategies and their weights").
		Handler(func(ctx context.Context, input struct{}) ([]scoring.Strategy, error) {
			return scoring.Strategies(), nil
		})

	return nil
}

func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}
