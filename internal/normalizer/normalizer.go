// Package normalizer converts raw per-metric scores into league-relative
// profile scores: per profile, the entity's raw metric average is placed
// on a 1-100 scale by z-scoring it against all entities of the same
// iteration.
package normalizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/lvdb/scoutstyles/internal/config"
	"github.com/lvdb/scoutstyles/internal/model"
)

// Store is the slice of the storage layer the normalizer needs.
type Store interface {
	MetricScoresForProfile(kind model.EntityKind, metricIDs []int) ([]model.MetricScore, error)
	ReplaceProfileScores(scores []model.ProfileScore) error
}

// Result reports what a run wrote.
type Result struct {
	ProfilesWritten int
	PerProfile      map[string]int // profile name -> entity-iteration rows
}

// Run recomputes every profile score from the current metric feed and
// replaces the stored table in one transaction. Any error aborts the run
// with the previous generation intact; there is no partial output.
func Run(store Store, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{PerProfile: make(map[string]int)}
	var all []model.ProfileScore

	for _, group := range []struct {
		kind     model.EntityKind
		profiles map[string][]int
	}{
		{model.KindPlayer, cfg.PlayerProfiles},
		{model.KindSquad, cfg.SquadStyles},
	} {
		for _, p := range sortedProfiles(group.profiles) {
			rows, err := store.MetricScoresForProfile(group.kind, p.MetricIDs)
			if err != nil {
				return nil, fmt.Errorf("load metrics for %q: %w", p.Name, err)
			}
			scores := ScoreProfile(p, group.kind, rows, cfg.Scoring)
			res.PerProfile[p.Name] = len(scores)
			res.ProfilesWritten++
			all = append(all, scores...)
		}
	}

	if err := store.ReplaceProfileScores(all); err != nil {
		return nil, fmt.Errorf("replace profile scores: %w", err)
	}
	return res, nil
}

// ScoreProfile computes one profile's scores from its raw metric rows.
//
// Every (entity, iteration) pair with at least one matching metric gets a
// raw average; the league mean and sample standard deviation of those
// averages, per iteration, drive the z-score transform
//
//	score = clamp(round(center + z*spread), min, max)
//
// A zero-variance league contributes z=0, so every entity lands exactly on
// the midpoint. Output order is (iteration, entity) ascending.
func ScoreProfile(p model.Profile, kind model.EntityKind, rows []model.MetricScore, pol config.ScoringPolicy) []model.ProfileScore {
	type entityIter struct{ entityID, iterationID string }

	sums := make(map[entityIter]float64)
	counts := make(map[entityIter]int)
	for _, r := range rows {
		k := entityIter{r.EntityID, r.IterationID}
		sums[k] += r.Value
		counts[k]++
	}

	// Raw averages grouped per iteration.
	rawByIter := make(map[string][]model.ProfileScore)
	for k, sum := range sums {
		rawByIter[k.iterationID] = append(rawByIter[k.iterationID], model.ProfileScore{
			EntityID:    k.entityID,
			Kind:        kind,
			IterationID: k.iterationID,
			ProfileName: p.Name,
			RawAvg:      sum / float64(counts[k]),
		})
	}

	iterIDs := make([]string, 0, len(rawByIter))
	for id := range rawByIter {
		iterIDs = append(iterIDs, id)
	}
	sort.Strings(iterIDs)

	var out []model.ProfileScore
	for _, iterID := range iterIDs {
		entries := rawByIter[iterID]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].EntityID < entries[j].EntityID
		})

		raws := make([]float64, len(entries))
		for i, e := range entries {
			raws[i] = e.RawAvg
		}
		leagueMean := mean(raws)
		leagueStd := sampleStdDev(raws, leagueMean)

		for i := range entries {
			z := 0.0
			if leagueStd != 0 {
				z = (entries[i].RawAvg - leagueMean) / leagueStd
			}
			entries[i].Score = clamp(int(math.Round(pol.Center+z*pol.Spread)), pol.Min, pol.Max)
			out = append(out, entries[i])
		}
	}
	return out
}

// sortedProfiles returns the catalogue as a name-sorted slice so runs are
// deterministic regardless of map order.
func sortedProfiles(m map[string][]int) []model.Profile {
	out := make([]model.Profile, 0, len(m))
	for name, ids := range m {
		out = append(out, model.Profile{Name: name, MetricIDs: ids})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdDev returns the n-1 standard deviation; 0 for fewer than two values.
func sampleStdDev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
