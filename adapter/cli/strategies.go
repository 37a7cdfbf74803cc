package cli

import (
	"fmt"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/scoring"
	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available scoring strategies",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-17s %8s %11s %7s %11s\n", "STRATEGY", "URGENCY", "IMPORTANCE", "EFFORT", "DEPENDENCY")
		for _, s := range scoring.Strategies() {
			name := s.Name
			if name == scoring.Default().Name {
				name += " *"
			}
			fmt.Fprintf(out, "%-17s %7.0f%% %10.0f%% %6.0f%% %10.0f%%\n",
				name, s.Urgency*100, s.Importance*100, s.Effort*100, s.Dependency*100)
		}
		fmt.Fprintln(out, "\n* default")
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
