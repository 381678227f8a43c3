package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "scoutstyles",
	Short: "Football playing-style scoring and similarity tool",
	Long: "Compute league-relative playing-style scores for players and squads\n" +
		"from an upstream metric feed, and find the closest stylistic matches.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".scoutstyles", "scout.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
