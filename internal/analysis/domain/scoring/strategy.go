package scoring

import (
	"sort"
	"strings"
)

// Strategy is a named weight vector controlling how the four factor scores
// combine into a final score. Weights are non-negative and sum to 1.0.
type Strategy struct {
	Name       string  `json:"name"`
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`
}

// WeightSum returns the sum of the four weights. For every registered
// strategy this is 1.0 within 1e-9.
func (s Strategy) WeightSum() float64 {
	return s.Urgency + s.Importance + s.Effort + s.Dependency
}

// Registered strategy names.
const (
	StrategyBalanced       = "BALANCED"
	StrategyFastestWins    = "FASTEST_WINS"
	StrategyHighImpact     = "HIGH_IMPACT"
	StrategyDeadlineDriven = "DEADLINE_DRIVEN"
)

// registry is built once at init and never mutated afterwards.
var registry = map[string]Strategy{
	StrategyBalanced:       {Name: StrategyBalanced, Urgency: 0.25, Importance: 0.25, Effort: 0.25, Dependency: 0.25},
	StrategyFastestWins:    {Name: StrategyFastestWins, Urgency: 0.15, Importance: 0.15, Effort: 0.55, Dependency: 0.15},
	StrategyHighImpact:     {Name: StrategyHighImpact, Urgency: 0.15, Importance: 0.55, Effort: 0.15, Dependency: 0.15},
	StrategyDeadlineDriven: {Name: StrategyDeadlineDriven, Urgency: 0.55, Importance: 0.20, Effort: 0.10, Dependency: 0.15},
}

// aliases maps legacy names accepted on the wire to registered strategies.
var aliases = map[string]string{
	"SMART_BALANCE": StrategyBalanced,
}

// Default returns the strategy used when none is requested or the requested
// name is unknown.
func Default() Strategy {
	return registry[StrategyBalanced]
}

// Lookup resolves a strategy by name, case-insensitively. The second return
// reports whether the name matched a registered strategy or alias; callers
// fall back to Default (with a warning, not an error) when it is false.
func Lookup(name string) (Strategy, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return Default(), true
	}
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	s, ok := registry[key]
	if !ok {
		return Default(), false
	}
	return s, true
}

// Strategies returns all registered strategies sorted by name.
func Strategies() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
