// Package similarity finds the entities whose profile score pattern is
// closest to a target's. The comparison runs over the target's active
// dimensions only: the profiles it actually scores on. Candidates missing
// a dimension count as 0 there, so a candidate is never dropped just for
// lacking one attribute.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lvdb/scoutstyles/internal/model"
)

// Lookup failure conditions, distinguishable via errors.Is.
var (
	// ErrUnknownEntity: the id does not exist in the store at all.
	ErrUnknownEntity = errors.New("entity does not exist")
	// ErrTargetNotFound: the entity exists but has no profile scores in
	// the requested iteration (e.g. outside the scored population).
	ErrTargetNotFound = errors.New("target has no profile scores in iteration")
	// ErrNoActiveDimensions: no positive profile score anywhere, so there
	// is no subspace to compare in.
	ErrNoActiveDimensions = errors.New("target has no positive profile scores")
	// ErrEmptyCandidatePool: role/recency/level filtering left nobody to
	// compare against.
	ErrEmptyCandidatePool = errors.New("no candidates after filtering")
)

// Store is the slice of the storage layer the engine reads from. It never
// writes.
type Store interface {
	GetEntity(id string, kind model.EntityKind) (*model.Entity, error)
	ProfileScoresFor(entityID string, kind model.EntityKind, iterationID string) (map[string]model.ProfileScore, error)
	CandidatePool(kind model.EntityKind, position string, seasons []string, excludeID string) ([]model.ScoredEntity, error)
}

// Query identifies one similarity lookup.
type Query struct {
	EntityID    string
	Kind        model.EntityKind
	IterationID string
	TopK        int
	// LevelTolerance bounds how far a candidate's average score may sit
	// from the target's (± points) before ranking. 0 disables the filter;
	// it guards against matching profile shape across very different
	// quality levels.
	LevelTolerance float64
}

// FindSimilar runs one lookup: resolve the target, determine its active
// dimensions, build the candidate pool within the recency window, and rank
// by 100 minus the mean absolute score difference. Read-only; a failed
// lookup has nothing to undo and is never retried here.
func FindSimilar(store Store, q Query, recentSeasons []string) ([]model.Neighbor, error) {
	ent, err := store.GetEntity(q.EntityID, q.Kind)
	if err != nil {
		return nil, fmt.Errorf("resolve entity: %w", err)
	}
	if ent == nil {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownEntity, q.Kind, q.EntityID)
	}

	scores, err := store.ProfileScoresFor(q.EntityID, q.Kind, q.IterationID)
	if err != nil {
		return nil, fmt.Errorf("load target scores: %w", err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: %s %q in iteration %q", ErrTargetNotFound, q.Kind, q.EntityID, q.IterationID)
	}

	target := activeDimensions(scores)
	if len(target) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoActiveDimensions, q.Kind, q.EntityID)
	}

	// Players compare within their position bucket; squads share one pool.
	position := ""
	if q.Kind == model.KindPlayer {
		position = ent.Position
	}
	pool, err := store.CandidatePool(q.Kind, position, recentSeasons, q.EntityID)
	if err != nil {
		return nil, fmt.Errorf("build candidate pool: %w", err)
	}

	neighbors := Rank(target, pool, q.TopK, q.LevelTolerance)
	if len(neighbors) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrEmptyCandidatePool, q.Kind, q.EntityID)
	}
	return neighbors, nil
}

// activeDimensions extracts the target's comparison subspace: every
// profile with a strictly positive score.
func activeDimensions(scores map[string]model.ProfileScore) map[string]float64 {
	out := make(map[string]float64)
	for name, s := range scores {
		if s.Score > 0 {
			out[name] = float64(s.Score)
		}
	}
	return out
}

// Rank scores every candidate against the target vector and returns the
// top k. The target map must be non-empty; callers guard that.
//
// similarity = 100 - mean(|candidate[d] - target[d]|) over the target's
// dimensions; both sides already live on the common 1-100 scale, so the
// raw L1 average needs no per-dimension rescaling. When tolerance > 0,
// candidates whose dimension average is outside targetAvg ± tolerance are
// filtered out before ranking. Ties order by entity id ascending; the
// stable sort keeps the pool's iteration order for rows of one entity.
func Rank(target map[string]float64, pool []model.ScoredEntity, topK int, tolerance float64) []model.Neighbor {
	dims := make([]string, 0, len(target))
	for d := range target {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	targetAvg := 0.0
	for _, d := range dims {
		targetAvg += target[d]
	}
	targetAvg /= float64(len(dims))

	var ranked []model.Neighbor
	for _, cand := range pool {
		var absSum, candSum float64
		for _, d := range dims {
			v := float64(cand.Scores[d]) // missing dimension counts as 0
			absSum += math.Abs(v - target[d])
			candSum += v
		}
		candAvg := candSum / float64(len(dims))

		if tolerance > 0 && math.Abs(candAvg-targetAvg) > tolerance {
			continue
		}

		ranked = append(ranked, model.Neighbor{
			EntityID:   cand.EntityID,
			Label:      label(cand),
			Similarity: 100 - absSum/float64(len(dims)),
			AvgScore:   candAvg,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		return ranked[i].EntityID < ranked[j].EntityID
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// label builds the display identity for one candidate row.
func label(c model.ScoredEntity) string {
	if c.Kind == model.KindPlayer && c.SquadName != "" {
		return fmt.Sprintf("%s (%s, %s)", c.Name, c.SquadName, c.Season)
	}
	return fmt.Sprintf("%s (%s, %s)", c.Name, c.Competition, c.Season)
}
