// Package report renders query results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/lvdb/scoutstyles/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintTargetHeader prints a one-line summary of the similarity target.
func PrintTargetHeader(w io.Writer, e model.Entity, it model.Iteration) {
	ctx := e.SquadName
	if ctx == "" {
		ctx = it.Competition
	}
	pos := ""
	if e.Position != "" {
		pos = fmt.Sprintf("  |  Position: %s", e.Position)
	}
	fmt.Fprintf(w, "\nTarget: %s (%s)%s  |  Season: %s  |  Iteration: %s\n\n",
		e.Name, ctx, pos, it.Season, it.ID)
}

// PrintNeighborTable prints a ranked similarity result list.
func PrintNeighborTable(w io.Writer, neighbors []model.Neighbor) {
	table := newTable(w)
	table.Header("#", "ID", "WHO", "SIMILARITY", "AVG SCORE")

	for i, n := range neighbors {
		table.Append(
			strconv.Itoa(i+1),
			n.EntityID,
			n.Label,
			fmt.Sprintf("%.1f", n.Similarity),
			fmt.Sprintf("%.1f", n.AvgScore),
		)
	}
	table.Render()
}

// PrintProfileScoreTable prints an entity's profile scores, one row per
// (season, profile).
func PrintProfileScoreTable(w io.Writer, scores []model.ProfileScore, iters map[string]model.Iteration) {
	table := newTable(w)
	table.Header("SEASON", "COMPETITION", "PROFILE", "SCORE", "RAW AVG")

	for _, s := range scores {
		it := iters[s.IterationID]
		table.Append(
			it.Season,
			it.Competition,
			s.ProfileName,
			strconv.Itoa(s.Score),
			fmt.Sprintf("%.2f", s.RawAvg),
		)
	}
	table.Render()
}

// PrintIterationTable prints the season/competition catalog.
func PrintIterationTable(w io.Writer, iters []model.Iteration) {
	table := newTable(w)
	table.Header("ITERATION", "SEASON", "COMPETITION")

	for _, it := range iters {
		table.Append(it.ID, it.Season, it.Competition)
	}
	table.Render()
}

// PrintNormalizeResult prints per-profile row counts after a normalizer run.
func PrintNormalizeResult(w io.Writer, perProfile map[string]int) {
	names := make([]string, 0, len(perProfile))
	for name := range perProfile {
		names = append(names, name)
	}
	sort.Strings(names)

	table := newTable(w)
	table.Header("PROFILE", "ROWS")
	for _, name := range names {
		table.Append(name, strconv.Itoa(perProfile[name]))
	}
	table.Render()
}

// PrintMetricBreakdown prints a player's raw on-ball/off-ball metric values.
// Metrics without a stored value render as an em-dash.
func PrintMetricBreakdown(w io.Writer, group string, metricIDs []int, values map[string]float64) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", group)
	table := newTable(w)
	table.Header("METRIC", "VALUE")

	for _, id := range metricIDs {
		key := model.MetricKey(id)
		val := "—"
		if v, ok := values[key]; ok {
			val = fmt.Sprintf("%.1f", v)
		}
		table.Append(key, val)
	}
	table.Render()
}
