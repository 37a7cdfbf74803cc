package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		a := GetApp()
		if a == nil || a.HistoryRepo == nil {
			fmt.Fprintln(out, "Analysis history is not enabled.")
			fmt.Fprintln(out, "Set TRIAGE_HISTORY_ENABLED=true (and optionally DATABASE_URL) to record runs.")
			return nil
		}

		records, err := a.HistoryRepo.ListRecent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No analyses recorded yet.")
			return nil
		}

		for _, r := range records {
			fmt.Fprintf(out, "%s  %-16s %3d tasks  top %.2f/10  %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Strategy, r.TaskCount, r.TopScore, r.TopTaskTitle)
			if r.HasCycles {
				for _, p := range r.CyclePaths {
					fmt.Fprintf(out, "    cycle: %s\n", p)
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
