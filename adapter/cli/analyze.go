package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank a batch of tasks by priority",
	Example: `  triage analyze -f tasks.json
  triage analyze -f tasks.json --strategy deadline_driven --today 2026-03-02
  cat tasks.json | triage analyze --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		tasks, strat, err := readTasks(cmd)
		if err != nil {
			return err
		}
		today, err := referenceDate()
		if err != nil {
			return err
		}

		handler := queries.NewAnalyzeTasksHandler()
		if a := GetApp(); a != nil {
			handler = a.AnalyzeHandler
		}

		result, err := handler.Handle(cmd.Context(), queries.AnalyzeTasksQuery{
			Tasks:    tasks,
			Strategy: strat,
			Today:    today,
		})
		if err != nil {
			var verr *task.ValidationError
			if errors.As(err, &verr) {
				printValidationError(cmd.ErrOrStderr(), verr)
				return errors.New("analysis aborted")
			}
			return err
		}

		if a := GetApp(); a != nil {
			a.RecordAnalysis(cmd.Context(), result)
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printAnalysis(out, result)
		return nil
	},
}

func printAnalysis(out io.Writer, result *queries.AnalysisResult) {
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w.Message)
		for _, d := range w.Details {
			fmt.Fprintf(out, "  %s\n", d)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Ranked %d tasks (strategy: %s)\n\n", len(result.Tasks), result.Strategy)
	for i, t := range result.Tasks {
		fmt.Fprintf(out, "%2d. [%s] %s (%.2f/10, due %s)\n", i+1, t.PriorityLevel, t.Title, t.PriorityScore, t.DueDate)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
