// Package cli implements the triage command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/triage/internal/app"
	"github.com/spf13/cobra"
)

var (
	logger   *slog.Logger
	cliApp   *app.Container
	strategy string
	todayStr string
	inFile   string
	asJSON   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage - task priority analysis",
	Long: `Triage ranks a batch of tasks by combining four signals -
deadline proximity, stated importance, required effort, and blocking
relationships - under a selectable weighting strategy, and flags
dependency cycles in the batch.`,
	SilenceUsage: true,
}

// SetLogger sets the logger used by CLI commands.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetApp sets the wired application container.
func SetApp(a *app.Container) {
	cliApp = a
}

// GetApp returns the wired application container, or nil in limited mode.
func GetApp() *app.Container {
	return cliApp
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "", "scoring strategy (balanced, fastest_wins, high_impact, deadline_driven)")
	rootCmd.PersistentFlags().StringVar(&todayStr, "today", "", "reference date for urgency (YYYY-MM-DD, default: current date)")
	rootCmd.PersistentFlags().StringVarP(&inFile, "file", "f", "-", "tasks JSON file (\"-\" reads stdin)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "emit raw JSON instead of formatted output")
}
