package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "learnpulse",
	Short: "Learner behavior clustering and insight service",
	Long: "LearnPulse — computes behavioral features from raw learning-platform\n" +
		"events, assigns each learner a cluster, and generates a personal insight\n" +
		"message. Train a model offline, predict from a JSON payload, or run the\n" +
		"HTTP service.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNPULSE_DB env var)")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEARNPULSE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
