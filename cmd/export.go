package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/storage"
)

var exportOut string

// exportCmd dumps the profile score table as CSV for downstream tooling.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all profile scores as CSV",
	Long: `Write the full profile score table to CSV, joined with season and
competition, in stable key order. Columns:

  entity_id,kind,iteration_id,season,competition,profile,score,raw_avg`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	scores, iters, err := db.AllProfileScores()
	if err != nil {
		return fmt.Errorf("query profile scores: %w", err)
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"entity_id", "kind", "iteration_id", "season", "competition", "profile", "score", "raw_avg"}); err != nil {
		return err
	}
	for _, s := range scores {
		it := iters[s.IterationID]
		rec := []string{
			s.EntityID,
			string(s.Kind),
			s.IterationID,
			it.Season,
			it.Competition,
			s.ProfileName,
			strconv.Itoa(s.Score),
			strconv.FormatFloat(s.RawAvg, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(scores), exportOut)
	}
	return nil
}
