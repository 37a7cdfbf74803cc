package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/spf13/cobra"
)

// taskFile is the accepted input document: either a bare task array or an
// object carrying tasks plus an optional strategy.
type taskFile struct {
	Tasks    []task.Task `json:"tasks"`
	Strategy string      `json:"strategy,omitempty"`
}

// readTasks loads the task batch from --file (or stdin). A strategy in the
// file is used unless the --strategy flag overrides it.
func readTasks(cmd *cobra.Command) ([]task.Task, string, error) {
	var raw []byte
	var err error

	if inFile == "" || inFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(inFile)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read tasks: %w", err)
	}

	var doc taskFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		// fall back to a bare array of tasks
		var tasks []task.Task
		if arrErr := json.Unmarshal(raw, &tasks); arrErr != nil {
			return nil, "", fmt.Errorf("invalid tasks JSON: %w", err)
		}
		doc.Tasks = tasks
	}

	chosen := strategy
	if chosen == "" {
		chosen = doc.Strategy
	}
	return doc.Tasks, chosen, nil
}

// referenceDate resolves the --today flag, defaulting to the current date.
func referenceDate() (time.Time, error) {
	if todayStr == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse(task.DateLayout, todayStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today, use YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}

// printValidationError renders a structured validation failure with one
// line per offending field.
func printValidationError(w io.Writer, verr *task.ValidationError) {
	fmt.Fprintln(w, "Task batch is invalid:")
	for _, f := range verr.Fields {
		label := fmt.Sprintf("task %d", f.TaskIndex+1)
		if f.TaskIndex < 0 {
			label = "batch"
		} else if f.TaskTitle != "" {
			label = fmt.Sprintf("task %d (%s)", f.TaskIndex+1, f.TaskTitle)
		}
		fmt.Fprintf(w, "  %s: %s: %s\n", label, f.Field, f.Message)
	}
}
