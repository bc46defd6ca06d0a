package commands

import (
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "evaluator",
	Short: "Deep evaluation of spoken-practice sessions",
	Long: `Evaluator segments a practice transcript into topics, scores the
speaker's voice metrics and writes per-topic coaching feedback.

Configuration is read from .env, an optional YAML file (--config or
$EVALUATOR_CONFIG) and environment variables, in that order.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
}
