package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Iterations == 0 {
		fmt.Fprintln(os.Stdout, "Store is empty. Run 'scoutstyles load' to import a feed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Store Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Iterations     : %d\n", ov.Iterations)
	fmt.Fprintf(os.Stdout, "  Season range   : %s → %s\n", ov.OldestSeason, ov.LatestSeason)
	fmt.Fprintf(os.Stdout, "  Players        : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Squads         : %d\n", ov.Squads)
	fmt.Fprintf(os.Stdout, "  Metric rows    : %d\n", ov.MetricRows)
	fmt.Fprintf(os.Stdout, "  Profile rows   : %d\n", ov.ProfileRows)
	fmt.Fprintf(os.Stdout, "  Profiles       : %d\n", ov.Profiles)
	if ov.ProfileRows == 0 {
		fmt.Fprintln(os.Stdout, "\nNo profile scores yet. Run 'scoutstyles normalize'.")
	}
	return nil
}
