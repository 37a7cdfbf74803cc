// Package services contains the priority engine that combines factor scores
// under a strategy into a final score with an explanation.
package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/graph"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/scoring"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
)

// Level is the discrete priority bucket derived from the final score.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "HIGH"
	case LevelMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Contribution is one factor's share of the final score.
type Contribution struct {
	Raw          float64 `json:"raw"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Rationale    string  `json:"rationale"`
}

// Breakdown is the full scoring result for one task: the four factor
// scores, their weighted contributions, and the derived level. Final keeps
// full precision for ordering; Rounded is the two-decimal display value.
type Breakdown struct {
	TaskID     int
	Strategy   scoring.Strategy
	Urgency    Contribution
	Importance Contribution
	Effort     Contribution
	Dependency Contribution
	Final      float64
	Rounded    float64
	Level      Level
}

// Engine is the stateless score aggregator. One instance can serve
// concurrent calls; it holds no mutable state.
type Engine struct{}

// NewEngine creates a priority engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score combines a task's factor scores under the given strategy. The
// dependency factor comes from the whole-batch graph report, which must be
// computed before any per-task scoring. The reference date keeps urgency
// pure and testable.
func (e *Engine) Score(t task.Task, today time.Time, report graph.Report, strat scoring.Strategy) Breakdown {
	due, _ := t.Due() // validated upstream

	urgency := scoring.Urgency(due, today)
	importance := scoring.Importance(t.Importance)
	effort := scoring.Effort(t.EstimatedHours)
	dependency := scoring.Dependency(report.BlocksCount[t.ID], report.BlockedBy[t.ID])

	final := urgency.Raw*strat.Urgency +
		importance.Raw*strat.Importance +
		effort.Raw*strat.Effort +
		dependency.Raw*strat.Dependency
	final = clamp(final, 0, 10)

	return Breakdown{
		TaskID:     t.ID,
		Strategy:   strat,
		Urgency:    contribution(urgency, strat.Urgency),
		Importance: contribution(importance, strat.Importance),
		Effort:     contribution(effort, strat.Effort),
		Dependency: contribution(dependency, strat.Dependency),
		Final:      final,
		Rounded:    math.Round(final*100) / 100,
		Level:      levelFor(final),
	}
}

// levelFor buckets the final score. Thresholds compare the unrounded value
// so a score of 6.995 stays MEDIUM even though it displays as 7.00.
func levelFor(final float64) Level {
	switch {
	case final >= 7:
		return LevelHigh
	case final >= 4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Explanation renders the breakdown as deterministic human-readable text.
func (b Breakdown) Explanation() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Priority Score: %.2f/10 (Strategy: %s)\n", b.Rounded, b.Strategy.Name)
	fmt.Fprintf(&sb, "├─ Urgency: %s\n", b.Urgency.line())
	fmt.Fprintf(&sb, "├─ Importance: %s\n", b.Importance.line())
	fmt.Fprintf(&sb, "├─ Effort: %s\n", b.Effort.line())
	fmt.Fprintf(&sb, "└─ Dependencies: %s", b.Dependency.line())
	return sb.String()
}

func (c Contribution) line() string {
	return fmt.Sprintf("%.1f/10 × %.0f%% = %.2f (%s)", c.Raw, c.Weight*100, c.Contribution, c.Rationale)
}

func contribution(f scoring.FactorScore, weight float64) Contribution {
	return Contribution{
		Raw:          f.Raw,
		Weight:       weight,
		Contribution: f.Raw * weight,
		Rationale:    f.Rationale,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
