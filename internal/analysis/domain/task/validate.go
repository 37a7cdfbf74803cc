package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldError describes one validation failure on one task field.
type FieldError struct {
	TaskIndex int    `json:"task_index"`
	TaskID    int    `json:"task_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// ValidationError aggregates every validation failure found in a batch.
// Scoring never runs when a batch fails validation.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		f := e.Fields[0]
		return fmt.Sprintf("invalid task batch: task %d: %s: %s", f.TaskIndex, f.Field, f.Message)
	}
	return fmt.Sprintf("invalid task batch: %d field errors", len(e.Fields))
}

// ValidateBatch checks the whole batch and reports every problem at once
// rather than stopping at the first. Call AssignIDs first so positional ids
// participate in the uniqueness check. Returns nil when the batch is valid;
// otherwise the returned error is a *ValidationError.
func ValidateBatch(tasks []Task) error {
	if len(tasks) == 0 {
		return &ValidationError{Fields: []FieldError{{
			TaskIndex: -1,
			Field:     "tasks",
			Message:   "task batch must not be empty",
		}}}
	}

	var fields []FieldError
	add := func(i int, t Task, field, msg string) {
		fields = append(fields, FieldError{
			TaskIndex: i,
			TaskID:    t.ID,
			TaskTitle: strings.TrimSpace(t.Title),
			Field:     field,
			Message:   msg,
		})
	}

	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if t.ID <= 0 {
			add(i, t, "id", "id must be a positive integer")
		} else if prev, dup := seen[t.ID]; dup {
			add(i, t, "id", fmt.Sprintf("duplicate id %d (already used by task %d)", t.ID, prev))
		} else {
			seen[t.ID] = i
		}

		title := strings.TrimSpace(t.Title)
		if title == "" {
			add(i, t, "title", "title must not be empty")
		} else if utf8.RuneCountInString(title) > MaxTitleLength {
			add(i, t, "title", fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}

		if strings.TrimSpace(t.DueDate) == "" {
			add(i, t, "due_date", "due_date is required")
		} else if _, err := time.Parse(DateLayout, strings.TrimSpace(t.DueDate)); err != nil {
			add(i, t, "due_date", "invalid due_date, use YYYY-MM-DD")
		}

		if t.EstimatedHours <= 0 {
			add(i, t, "estimated_hours", "estimated_hours must be greater than 0")
		}

		if t.Importance < 1 || t.Importance > 10 {
			add(i, t, "importance", "importance must be between 1 and 10")
		}

		for _, dep := range t.Dependencies {
			if dep <= 0 {
				add(i, t, "dependencies", fmt.Sprintf("invalid dependency id %d (must be a positive integer)", dep))
				break
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
