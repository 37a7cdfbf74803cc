package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/triage/internal/analysis/application/queries"
	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest the top three tasks to work on next",
	Example: `  triage suggest -f tasks.json
  triage suggest -f tasks.json --strategy fastest_wins`,
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

		handler := queries.NewSuggestTasksHandler(nil)
		if a := GetApp(); a != nil {
			handler = a.SuggestHandler
		}

		result, err := handler.Handle(cmd.Context(), queries.SuggestTasksQuery{
			Tasks:    tasks,
			Strategy: strat,
			Today:    today,
		})
		if err != nil {
			var verr *task.ValidationError
			if errors.As(err, &verr) {
				printValidationError(cmd.ErrOrStderr(), verr)
				return errors.New("suggestion aborted")
			}
			return err
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w.Message)
			for _, d := range w.Details {
				fmt.Fprintf(out, "  %s\n", d)
			}
		}
		if len(result.Warnings) > 0 {
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "Top picks from %d tasks (strategy: %s)\n\n", result.TotalTasksAnalyzed, result.Strategy)
		for i, t := range result.TopTasks {
			fmt.Fprintf(out, "%d. [%s] %s (%.2f/10)\n", i+1, t.PriorityLevel, t.Title, t.PriorityScore)
			fmt.Fprintf(out, "   %s\n", t.Recommendation)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
