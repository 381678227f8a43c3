package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/config"
	"github.com/lvdb/scoutstyles/internal/model"
	"github.com/lvdb/scoutstyles/internal/report"
	"github.com/lvdb/scoutstyles/internal/storage"
)

var metricsIteration string

// metricsCmd drills into a player's raw on-ball/off-ball metric values for
// their position bucket.
var metricsCmd = &cobra.Command{
	Use:   "metrics <player-id>",
	Short: "Show a player's raw position metrics for one season",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsIteration, "iteration", "", "iteration id (required)")
	_ = metricsCmd.MarkFlagRequired("iteration")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ent, err := db.GetEntity(args[0], model.KindPlayer)
	if err != nil {
		return fmt.Errorf("resolve player: %w", err)
	}
	if ent == nil {
		return fmt.Errorf("player %q not found", args[0])
	}

	pos, ok := cfg.Positions[ent.Position]
	if !ok {
		return fmt.Errorf("no metric mapping for position %q", ent.Position)
	}

	onBall, err := db.MetricValuesFor(ent.ID, model.KindPlayer, metricsIteration, pos.OnBall)
	if err != nil {
		return fmt.Errorf("query on-ball metrics: %w", err)
	}
	offBall, err := db.MetricValuesFor(ent.ID, model.KindPlayer, metricsIteration, pos.OffBall)
	if err != nil {
		return fmt.Errorf("query off-ball metrics: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n%s  |  Position: %s  |  Iteration: %s\n",
		ent.Name, ent.Position, metricsIteration)
	report.PrintMetricBreakdown(os.Stdout, "On the ball", pos.OnBall, onBall)
	report.PrintMetricBreakdown(os.Stdout, "Off the ball", pos.OffBall, offBall)
	return nil
}
