package cmd

import (
	"github.com/edbpede/math-sub000/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathsub",
	Short: "Adaptive math practice engine",
	Long:  "Mathsub — adaptive mathematics-practice engine: mastery tracking, spaced repetition, and balanced session composition.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHSUB_DB env var)")

	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHSUB_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
