// Package task defines the request-scoped task batch the analysis engine
// consumes, along with batch validation.
package task

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for due dates.
const DateLayout = "2006-01-02"

// MaxTitleLength is the longest accepted task title.
const MaxTitleLength = 255

// Task is one unit of work in a scoring request. Tasks are value objects:
// they exist for the duration of one analysis call and are never mutated
// or persisted by the engine.
type Task struct {
	ID             int     `json:"id,omitempty"`
	Title          string  `json:"title"`
	DueDate        string  `json:"due_date"`
	EstimatedHours float64 `json:"estimated_hours"`
	Importance     int     `json:"importance"`
	Dependencies   []int   `json:"dependencies,omitempty"`
}

// Due parses the task's due date. The validator guarantees this succeeds
// for any task that reaches the scorers.
func (t Task) Due() (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(t.DueDate))
}

// AssignIDs returns a copy of the batch with positional ids (1-based) filled
// in for tasks that arrived without one. The input slice is left untouched.
func AssignIDs(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == 0 {
			out[i].ID = i + 1
		}
	}
	return out
}
