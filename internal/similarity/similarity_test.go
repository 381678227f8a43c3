package similarity

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/lvdb/scoutstyles/internal/model"
)

func candidate(id, name string, scores map[string]int) model.ScoredEntity {
	return model.ScoredEntity{
		EntityID:    id,
		Kind:        model.KindPlayer,
		Name:        name,
		Position:    "ST",
		SquadName:   "FC Test",
		IterationID: "it1",
		Season:      "2024/2025",
		Competition: "Eredivisie",
		Scores:      scores,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestRank_MeanAbsoluteDifference: target {KVK Spits:90, Afmaker:80}.
// Candidate A {88, 82} differs by 2 on both dimensions: 98. Candidate B
// has KVK Spits 85 and no Afmaker row, which counts as 0: mean diff
// (5+80)/2 = 42.5, so 57.5.
func TestRank_MeanAbsoluteDifference(t *testing.T) {
	target := map[string]float64{"KVK Spits": 90, "Afmaker": 80}
	pool := []model.ScoredEntity{
		candidate("pB", "Bert", map[string]int{"KVK Spits": 85}),
		candidate("pA", "Arjen", map[string]int{"KVK Spits": 88, "Afmaker": 82}),
	}

	got := Rank(target, pool, 10, 0)
	if len(got) != 2 {
		t.Fatalf("want 2 neighbors, got %d", len(got))
	}
	if got[0].EntityID != "pA" || !almostEqual(got[0].Similarity, 98) {
		t.Errorf("first: want pA at 98, got %s at %f", got[0].EntityID, got[0].Similarity)
	}
	if got[1].EntityID != "pB" || !almostEqual(got[1].Similarity, 57.5) {
		t.Errorf("second: want pB at 57.5, got %s at %f", got[1].EntityID, got[1].Similarity)
	}
}

// TestRank_IgnoresExtraDimensions: a candidate's profiles outside the
// target's active set do not influence the score.
func TestRank_IgnoresExtraDimensions(t *testing.T) {
	target := map[string]float64{"Afmaker": 80}
	pool := []model.ScoredEntity{
		candidate("pA", "Arjen", map[string]int{"Afmaker": 80, "Diepteloper": 5}),
	}

	got := Rank(target, pool, 10, 0)
	if len(got) != 1 || !almostEqual(got[0].Similarity, 100) {
		t.Fatalf("want perfect match on the single shared dimension, got %+v", got)
	}
}

// TestRank_LevelFilter: with tolerance 15 a candidate whose dimension
// average sits more than 15 points from the target's is excluded even if
// its shape would rank.
func TestRank_LevelFilter(t *testing.T) {
	target := map[string]float64{"KVK Spits": 90, "Afmaker": 80} // avg 85
	pool := []model.ScoredEntity{
		candidate("pA", "Arjen", map[string]int{"KVK Spits": 88, "Afmaker": 82}), // avg 85
		candidate("pB", "Bert", map[string]int{"KVK Spits": 85}),                 // avg 42.5
	}

	got := Rank(target, pool, 10, 15)
	if len(got) != 1 {
		t.Fatalf("want 1 neighbor after level filter, got %d", len(got))
	}
	if got[0].EntityID != "pA" {
		t.Errorf("want pA to survive the filter, got %s", got[0].EntityID)
	}
}

// TestRank_LevelFilterBandEdge: a candidate exactly on the band edge is
// kept; one point further is dropped.
func TestRank_LevelFilterBandEdge(t *testing.T) {
	target := map[string]float64{"Afmaker": 80}
	pool := []model.ScoredEntity{
		candidate("edge", "Edge", map[string]int{"Afmaker": 65}),  // |65-80| = 15
		candidate("out", "Out", map[string]int{"Afmaker": 64}),    // |64-80| = 16
		candidate("high", "High", map[string]int{"Afmaker": 95}),  // |95-80| = 15
		candidate("gone", "Gone", map[string]int{"Afmaker": 96}),  // |96-80| = 16
	}

	got := Rank(target, pool, 10, 15)
	ids := make(map[string]bool)
	for _, n := range got {
		ids[n.EntityID] = true
	}
	if !ids["edge"] || !ids["high"] {
		t.Errorf("band edges must be inclusive, got %v", ids)
	}
	if ids["out"] || ids["gone"] {
		t.Errorf("outside the band must be dropped, got %v", ids)
	}
}

// TestRank_ZeroToleranceDisablesFilter: tolerance 0 means no level
// filtering at all, not a zero-width band.
func TestRank_ZeroToleranceDisablesFilter(t *testing.T) {
	target := map[string]float64{"Afmaker": 80}
	pool := []model.ScoredEntity{
		candidate("pA", "Arjen", map[string]int{"Afmaker": 5}),
	}

	if got := Rank(target, pool, 10, 0); len(got) != 1 {
		t.Fatalf("tolerance 0 must keep every candidate, got %d", len(got))
	}
}

// TestRank_SortedDescTieBreak: equal similarities order by entity id
// ascending so repeated lookups print identical tables.
func TestRank_SortedDescTieBreak(t *testing.T) {
	target := map[string]float64{"Afmaker": 80}
	pool := []model.ScoredEntity{
		candidate("p9", "Nine", map[string]int{"Afmaker": 78}),
		candidate("p2", "Two", map[string]int{"Afmaker": 82}),
		candidate("p5", "Five", map[string]int{"Afmaker": 90}),
		candidate("p1", "One", map[string]int{"Afmaker": 78}),
	}

	got := Rank(target, pool, 10, 0)
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Fatalf("not sorted descending at %d: %f > %f", i, got[i].Similarity, got[i-1].Similarity)
		}
	}
	// p9 and p1 tie at 98; p2 also lands on 98.
	want := []string{"p1", "p2", "p9", "p5"}
	for i, id := range want {
		if got[i].EntityID != id {
			t.Errorf("rank %d: want %s, got %s", i, id, got[i].EntityID)
		}
	}
}

// TestRank_TopKTruncation: only the best k survive.
func TestRank_TopKTruncation(t *testing.T) {
	target := map[string]float64{"Afmaker": 80}
	var pool []model.ScoredEntity
	for i := 0; i < 20; i++ {
		pool = append(pool, candidate(fmt.Sprintf("p%02d", i), "P", map[string]int{"Afmaker": 60 + i}))
	}

	got := Rank(target, pool, 5, 0)
	if len(got) != 5 {
		t.Fatalf("want 5 neighbors, got %d", len(got))
	}
	if got[0].EntityID != "p19" {
		t.Errorf("best match should be the closest score, got %s", got[0].EntityID)
	}
}

// TestRank_Asymmetry: the measure runs over the target's dimensions, so
// swapping target and candidate can give a different number. A scores B
// in A's two dimensions; B scores A in B's single dimension.
func TestRank_Asymmetry(t *testing.T) {
	aScores := map[string]int{"KVK Spits": 90, "Afmaker": 80}
	bScores := map[string]int{"KVK Spits": 85}

	aToB := Rank(map[string]float64{"KVK Spits": 90, "Afmaker": 80},
		[]model.ScoredEntity{candidate("pB", "Bert", bScores)}, 1, 0)
	bToA := Rank(map[string]float64{"KVK Spits": 85},
		[]model.ScoredEntity{candidate("pA", "Arjen", aScores)}, 1, 0)

	if !almostEqual(aToB[0].Similarity, 57.5) {
		t.Errorf("A vs B: want 57.5, got %f", aToB[0].Similarity)
	}
	if !almostEqual(bToA[0].Similarity, 95) {
		t.Errorf("B vs A: want 95, got %f", bToA[0].Similarity)
	}
}

// ---- FindSimilar orchestration ----

type fakeStore struct {
	entities map[string]*model.Entity
	scores   map[string]map[string]model.ProfileScore
	pool     []model.ScoredEntity

	gotPosition string
	gotExclude  string
	gotSeasons  []string
}

func (f *fakeStore) GetEntity(id string, kind model.EntityKind) (*model.Entity, error) {
	return f.entities[id], nil
}

func (f *fakeStore) ProfileScoresFor(entityID string, kind model.EntityKind, iterationID string) (map[string]model.ProfileScore, error) {
	return f.scores[entityID+"/"+iterationID], nil
}

func (f *fakeStore) CandidatePool(kind model.EntityKind, position string, seasons []string, excludeID string) ([]model.ScoredEntity, error) {
	f.gotPosition = position
	f.gotExclude = excludeID
	f.gotSeasons = seasons
	return f.pool, nil
}

func targetScores(vals map[string]int) map[string]model.ProfileScore {
	out := make(map[string]model.ProfileScore, len(vals))
	for name, v := range vals {
		out[name] = model.ProfileScore{ProfileName: name, Score: v}
	}
	return out
}

var recentSeasons = []string{"2023/2024", "2024/2025", "2025/2026"}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entities: map[string]*model.Entity{
			"p1": {ID: "p1", Kind: model.KindPlayer, Name: "Target", Position: "ST"},
		},
		scores: map[string]map[string]model.ProfileScore{
			"p1/it1": targetScores(map[string]int{"KVK Spits": 90, "Afmaker": 80}),
		},
		pool: []model.ScoredEntity{
			candidate("pA", "Arjen", map[string]int{"KVK Spits": 88, "Afmaker": 82}),
		},
	}
}

func TestFindSimilar_PlayerLookup(t *testing.T) {
	store := newFakeStore()

	got, err := FindSimilar(store, Query{EntityID: "p1", Kind: model.KindPlayer, IterationID: "it1", TopK: 10}, recentSeasons)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != "pA" {
		t.Fatalf("want pA, got %+v", got)
	}
	if store.gotPosition != "ST" {
		t.Errorf("player pool must be restricted to the target's position, got %q", store.gotPosition)
	}
	if store.gotExclude != "p1" {
		t.Errorf("target must be excluded from its own pool, got %q", store.gotExclude)
	}
	if len(store.gotSeasons) != 3 {
		t.Errorf("recency window must reach the store, got %v", store.gotSeasons)
	}
}

func TestFindSimilar_SquadPoolIsGlobal(t *testing.T) {
	store := newFakeStore()
	store.entities["s1"] = &model.Entity{ID: "s1", Kind: model.KindSquad, Name: "FC Target", Position: "ST"}
	store.scores["s1/it1"] = targetScores(map[string]int{"Safety First": 60})
	store.pool = []model.ScoredEntity{
		{EntityID: "s2", Kind: model.KindSquad, Name: "FC Other", IterationID: "it1",
			Season: "2024/2025", Competition: "Eredivisie",
			Scores: map[string]int{"Safety First": 55}},
	}

	if _, err := FindSimilar(store, Query{EntityID: "s1", Kind: model.KindSquad, IterationID: "it1", TopK: 5}, recentSeasons); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if store.gotPosition != "" {
		t.Errorf("squads share one pool, position filter must be empty, got %q", store.gotPosition)
	}
}

func TestFindSimilar_UnknownEntity(t *testing.T) {
	store := newFakeStore()

	_, err := FindSimilar(store, Query{EntityID: "ghost", Kind: model.KindPlayer, IterationID: "it1"}, recentSeasons)
	if !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("want ErrUnknownEntity, got %v", err)
	}
}

func TestFindSimilar_TargetNotInIteration(t *testing.T) {
	store := newFakeStore()

	_, err := FindSimilar(store, Query{EntityID: "p1", Kind: model.KindPlayer, IterationID: "it99"}, recentSeasons)
	if !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("want ErrTargetNotFound, got %v", err)
	}
}

func TestFindSimilar_NoActiveDimensions(t *testing.T) {
	store := newFakeStore()
	store.scores["p1/it1"] = targetScores(map[string]int{"KVK Spits": 0, "Afmaker": 0})

	_, err := FindSimilar(store, Query{EntityID: "p1", Kind: model.KindPlayer, IterationID: "it1"}, recentSeasons)
	if !errors.Is(err, ErrNoActiveDimensions) {
		t.Errorf("want ErrNoActiveDimensions, got %v", err)
	}
}

func TestFindSimilar_EmptyCandidatePool(t *testing.T) {
	store := newFakeStore()
	store.pool = nil

	_, err := FindSimilar(store, Query{EntityID: "p1", Kind: model.KindPlayer, IterationID: "it1"}, recentSeasons)
	if !errors.Is(err, ErrEmptyCandidatePool) {
		t.Errorf("want ErrEmptyCandidatePool, got %v", err)
	}
}

// TestFindSimilar_FilteredToEmpty: a pool that exists but is entirely
// level-filtered away reports the same condition as an empty pool.
func TestFindSimilar_FilteredToEmpty(t *testing.T) {
	store := newFakeStore()
	store.pool = []model.ScoredEntity{
		candidate("pB", "Bert", map[string]int{"KVK Spits": 5}),
	}

	_, err := FindSimilar(store, Query{
		EntityID: "p1", Kind: model.KindPlayer, IterationID: "it1",
		TopK: 10, LevelTolerance: 15,
	}, recentSeasons)
	if !errors.Is(err, ErrEmptyCandidatePool) {
		t.Errorf("want ErrEmptyCandidatePool after level filtering, got %v", err)
	}
}
