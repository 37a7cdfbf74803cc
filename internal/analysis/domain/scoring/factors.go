// Package scoring implements the four independent factor scorers and the
// strategy registry that controls how they combine.
package scoring

import (
	"fmt"
	"math"
	"time"
)

// FactorScore is the immutable result of one scorer for one task: a raw
// score on the 0..10 scale plus the rationale behind it.
type FactorScore struct {
	Raw       float64
	Rationale string
}

// Urgency scores deadline proximity. The reference date is supplied by the
// caller so the function stays pure; both values are treated as calendar
// dates, time-of-day is ignored.
func Urgency(due, today time.Time) FactorScore {
	d := daysBetween(today, due)

	switch {
	case d < 0:
		return FactorScore{10.0, fmt.Sprintf("Overdue by %d days - Maximum urgency", -d)}
	case d == 0:
		return FactorScore{9.0, "Due today - Very high urgency"}
	case d <= 3:
		return FactorScore{8.0 - float64(d)*0.3, fmt.Sprintf("Due in %d days - High urgency", d)}
	case d <= 7:
		return FactorScore{7.0 - float64(d-3)*0.5, fmt.Sprintf("Due in %d days - Medium urgency", d)}
	case d <= 14:
		return FactorScore{5.0 - float64(d-7)*0.3, fmt.Sprintf("Due in %d days - Moderate urgency", d)}
	default:
		score := math.Max(1.0, 3.0-float64(d-14)*0.1)
		return FactorScore{score, fmt.Sprintf("Due in %d days - Low urgency", d)}
	}
}

// Importance maps the user-stated 1..10 rating directly to the score. The
// band label exists only for the rationale text.
func Importance(importance int) FactorScore {
	var band string
	switch {
	case importance >= 8:
		band = "Critical importance"
	case importance >= 6:
		band = "High importance"
	case importance >= 4:
		band = "Medium importance"
	default:
		band = "Low importance"
	}
	return FactorScore{float64(importance), fmt.Sprintf("%s (rated %d/10)", band, importance)}
}

// Effort scores estimated hours, rewarding quick wins. Lower effort yields
// a higher score.
func Effort(hours float64) FactorScore {
	switch {
	case hours < 1:
		return FactorScore{10.0, fmt.Sprintf("Quick win (%sh) - Maximum effort score", trimHours(hours))}
	case hours <= 2:
		return FactorScore{9.0 - (hours-1)*0.5, fmt.Sprintf("Fast task (%sh) - High effort score", trimHours(hours))}
	case hours <= 4:
		return FactorScore{7.5 - (hours-2)*0.75, fmt.Sprintf("Moderate task (%sh) - Medium effort score", trimHours(hours))}
	case hours <= 8:
		return FactorScore{5.5 - (hours-4)*0.375, fmt.Sprintf("Substantial task (%sh) - Lower effort score", trimHours(hours))}
	default:
		score := math.Max(1.0, 4.0-(hours-8)*0.2)
		return FactorScore{score, fmt.Sprintf("Large task (%sh) - Low effort score", trimHours(hours))}
	}
}

// Dependency scores how many other tasks are waiting on this one. The
// blocked titles feed the rationale when exactly one task is blocked.
func Dependency(blocksCount int, blockedTitles []string) FactorScore {
	switch {
	case blocksCount == 0:
		return FactorScore{3.0, "No tasks depend on this"}
	case blocksCount == 1:
		title := ""
		if len(blockedTitles) > 0 {
			title = blockedTitles[0]
		}
		return FactorScore{6.0, fmt.Sprintf("Blocks 1 task: %s", title)}
	case blocksCount == 2:
		return FactorScore{8.0, "Blocks 2 tasks"}
	default:
		score := math.Min(10.0, 8.0+float64(blocksCount-2)*0.5)
		return FactorScore{score, fmt.Sprintf("Blocks %d tasks - High priority", blocksCount)}
	}
}

// daysBetween returns whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// trimHours renders hours without a trailing ".0" for whole values.
func trimHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%.0f", h)
	}
	return fmt.Sprintf("%g", h)
}
