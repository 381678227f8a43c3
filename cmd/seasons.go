package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/report"
	"github.com/lvdb/scoutstyles/internal/storage"
)

// seasonsCmd lists the iteration catalog.
var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List all stored seasons and competitions",
	Args:  cobra.NoArgs,
	RunE:  runSeasons,
}

func runSeasons(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	iters, err := db.ListIterations()
	if err != nil {
		return fmt.Errorf("list iterations: %w", err)
	}
	if len(iters) == 0 {
		fmt.Fprintln(os.Stdout, "No iterations stored yet. Run 'scoutstyles load' to import a feed.")
		return nil
	}

	report.PrintIterationTable(os.Stdout, iters)
	return nil
}
