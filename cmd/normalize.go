package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/config"
	"github.com/lvdb/scoutstyles/internal/normalizer"
	"github.com/lvdb/scoutstyles/internal/report"
	"github.com/lvdb/scoutstyles/internal/storage"
)

// normalizeCmd runs the batch profile scoring job.
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Recompute all profile scores from the metric feed",
	Long: `Run the profile normalizer: for every configured player profile and squad
style, average the entity's raw metric scores, z-score the averages against
the league per iteration, and store the resulting 1-100 scores.

The score table is rebuilt in full on every run. A failed run leaves the
previous scores untouched.`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	res, err := normalizer.Run(db, cfg)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nRecomputed %d profiles.\n\n", res.ProfilesWritten)
	report.PrintNormalizeResult(os.Stdout, res.PerProfile)
	return nil
}
