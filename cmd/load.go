package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lvdb/scoutstyles/internal/model"
	"github.com/lvdb/scoutstyles/internal/storage"
)

var (
	loadIterations string
	loadEntities   string
	loadMetrics    string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import upstream CSV feeds into the store",
	Long: `Import one or more upstream exports. Each file is a CSV with a header row:

  --iterations  id,season,competition
  --entities    id,kind,name,position,squad
  --metrics     entity_id,kind,iteration_id,metric_id,value

Re-importing the same feed is idempotent; rows are replaced by key.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadIterations, "iterations", "", "iteration catalog CSV")
	loadCmd.Flags().StringVar(&loadEntities, "entities", "", "entity catalog CSV")
	loadCmd.Flags().StringVar(&loadMetrics, "metrics", "", "metric score feed CSV")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadIterations == "" && loadEntities == "" && loadMetrics == "" {
		return fmt.Errorf("nothing to load: pass --iterations, --entities and/or --metrics")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if loadIterations != "" {
		iters, err := readIterationsCSV(loadIterations)
		if err != nil {
			return fmt.Errorf("read %s: %w", loadIterations, err)
		}
		if err := db.UpsertIterations(iters); err != nil {
			return fmt.Errorf("store iterations: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Loaded %d iterations.\n", len(iters))
	}

	if loadEntities != "" {
		entities, err := readEntitiesCSV(loadEntities)
		if err != nil {
			return fmt.Errorf("read %s: %w", loadEntities, err)
		}
		if err := db.UpsertEntities(entities); err != nil {
			return fmt.Errorf("store entities: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Loaded %d entities.\n", len(entities))
	}

	if loadMetrics != "" {
		scores, err := readMetricsCSV(loadMetrics)
		if err != nil {
			return fmt.Errorf("read %s: %w", loadMetrics, err)
		}
		if err := db.InsertMetricScores(scores); err != nil {
			return fmt.Errorf("store metric scores: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Loaded %d metric scores.\n", len(scores))
	}

	return nil
}

func readIterationsCSV(path string) ([]model.Iteration, error) {
	var out []model.Iteration
	err := readCSV(path, 3, func(rec []string) error {
		out = append(out, model.Iteration{ID: rec[0], Season: rec[1], Competition: rec[2]})
		return nil
	})
	return out, err
}

func readEntitiesCSV(path string) ([]model.Entity, error) {
	var out []model.Entity
	err := readCSV(path, 5, func(rec []string) error {
		kind, err := model.ParseEntityKind(rec[1])
		if err != nil {
			return err
		}
		out = append(out, model.Entity{
			ID: rec[0], Kind: kind, Name: rec[2], Position: rec[3], SquadName: rec[4],
		})
		return nil
	})
	return out, err
}

func readMetricsCSV(path string) ([]model.MetricScore, error) {
	var out []model.MetricScore
	err := readCSV(path, 5, func(rec []string) error {
		kind, err := model.ParseEntityKind(rec[1])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return fmt.Errorf("bad value %q: %w", rec[4], err)
		}
		out = append(out, model.MetricScore{
			EntityID: rec[0], Kind: kind, IterationID: rec[2], MetricID: rec[3], Value: value,
		})
		return nil
	})
	return out, err
}

// readCSV opens a CSV file, skips the header row, and calls fn per record.
func readCSV(path string, fields int, fn func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields

	if _, err := r.Read(); err != nil { // header
		return err
	}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}
