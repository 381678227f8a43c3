package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/model"
	"github.com/lvdb/scoutstyles/internal/report"
	"github.com/lvdb/scoutstyles/internal/storage"
)

var profilesKind string

// profilesCmd shows an entity's stored profile scores across seasons.
var profilesCmd = &cobra.Command{
	Use:   "profiles <entity-id>",
	Short: "Show an entity's profile scores per season",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfiles,
}

func init() {
	profilesCmd.Flags().StringVar(&profilesKind, "kind", "player", "entity kind: player or squad")
}

func runProfiles(cmd *cobra.Command, args []string) error {
	kind, err := model.ParseEntityKind(profilesKind)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ent, err := db.GetEntity(args[0], kind)
	if err != nil {
		return fmt.Errorf("resolve entity: %w", err)
	}
	if ent == nil {
		return fmt.Errorf("%s %q not found", kind, args[0])
	}

	scores, iters, err := db.AllProfileScoresFor(ent.ID, kind)
	if err != nil {
		return fmt.Errorf("query profile scores: %w", err)
	}
	if len(scores) == 0 {
		fmt.Fprintf(os.Stdout, "No profile scores stored for %s. Run 'scoutstyles normalize' first.\n", ent.Name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s", ent.Name)
	if ent.SquadName != "" {
		fmt.Fprintf(os.Stdout, " (%s)", ent.SquadName)
	}
	fmt.Fprintln(os.Stdout)
	report.PrintProfileScoreTable(os.Stdout, scores, iters)
	return nil
}
