package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/config"
	"github.com/lvdb/scoutstyles/internal/model"
	"github.com/lvdb/scoutstyles/internal/report"
	"github.com/lvdb/scoutstyles/internal/similarity"
	"github.com/lvdb/scoutstyles/internal/storage"
)

var (
	similarKind      string
	similarIteration string
	similarTop       int
	similarTolerance float64
	similarNoLevel   bool
)

var similarCmd = &cobra.Command{
	Use:   "similar <entity-id>",
	Short: "Find the entities most similar to a player or squad",
	Long: `Rank the entities whose profile score pattern is closest to the target's,
within the target's position bucket (players) or the shared squad-style
space (squads), over recent seasons.

Similarity is 100 minus the mean absolute score difference over the
profiles the target actually scores on. Player lookups also require the
candidate's overall level to sit within a tolerance band of the target's.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarKind, "kind", "player", "entity kind: player or squad")
	similarCmd.Flags().StringVar(&similarIteration, "iteration", "", "home iteration id of the target (required)")
	similarCmd.Flags().IntVar(&similarTop, "top", 0, "result count (default: 10 players, 5 squads)")
	similarCmd.Flags().Float64Var(&similarTolerance, "tolerance", -1, "level band in points (default from config, player mode)")
	similarCmd.Flags().BoolVar(&similarNoLevel, "no-level-filter", false, "disable the level band entirely")
	_ = similarCmd.MarkFlagRequired("iteration")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	kind, err := model.ParseEntityKind(similarKind)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	q := similarity.Query{
		EntityID:    args[0],
		Kind:        kind,
		IterationID: similarIteration,
		TopK:        similarTop,
	}
	if q.TopK == 0 {
		if kind == model.KindSquad {
			q.TopK = cfg.Similarity.SquadTopK
		} else {
			q.TopK = cfg.Similarity.PlayerTopK
		}
	}
	// Level band applies to players only, unless overridden.
	if kind == model.KindPlayer {
		q.LevelTolerance = cfg.Similarity.LevelTolerance
	}
	if similarTolerance >= 0 {
		q.LevelTolerance = similarTolerance
	}
	if similarNoLevel {
		q.LevelTolerance = 0
	}

	neighbors, err := similarity.FindSimilar(db, q, cfg.RecentSeasons)
	switch {
	case errors.Is(err, similarity.ErrNoActiveDimensions):
		fmt.Fprintln(os.Stdout, "No comparison possible: the target has no positive profile scores.")
		return nil
	case errors.Is(err, similarity.ErrEmptyCandidatePool):
		fmt.Fprintln(os.Stdout, "No candidates left after filtering. Try --no-level-filter or widen the season window.")
		return nil
	case err != nil:
		return err
	}

	ent, err := db.GetEntity(q.EntityID, kind)
	if err != nil {
		return fmt.Errorf("resolve entity %q: %w", q.EntityID, err)
	}
	if ent == nil {
		return fmt.Errorf("%s %q not found", kind, q.EntityID)
	}
	it, err := db.GetIteration(q.IterationID)
	if err != nil {
		return fmt.Errorf("resolve iteration %q: %w", q.IterationID, err)
	}
	if it == nil {
		it = &model.Iteration{ID: q.IterationID}
	}

	report.PrintTargetHeader(os.Stdout, *ent, *it)
	report.PrintNeighborTable(os.Stdout, neighbors)
	return nil
}
