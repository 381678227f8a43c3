package model

import "fmt"

// EntityKind distinguishes the two units the pipeline scores and compares.
type EntityKind string

const (
	KindPlayer EntityKind = "player"
	KindSquad  EntityKind = "squad"
)

// ParseEntityKind maps a user-supplied kind string to an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "player":
		return KindPlayer, nil
	case "squad":
		return KindSquad, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q (want player or squad)", s)
	}
}

// MetricKey formats a numeric metric id the way the upstream feed keys it,
// e.g. 24 -> "k24".
func MetricKey(id int) string {
	return fmt.Sprintf("k%d", id)
}

// ---- Upstream reference data (read-only) ----

// Iteration is one season+competition scope. All league statistics are
// computed within a single iteration.
type Iteration struct {
	ID          string
	Season      string // e.g. "2025/2026"
	Competition string // e.g. "Jupiler Pro League"
}

// Entity is the descriptive record behind an id: a player or a squad.
// Position and SquadName are only populated for players.
type Entity struct {
	ID        string
	Kind      EntityKind
	Name      string
	Position  string // position bucket, e.g. "ST", "CB"; empty for squads
	SquadName string
}

// MetricScore is one raw per-metric score produced upstream, already
// normalized to the common 1-100 scale.
type MetricScore struct {
	EntityID    string
	Kind        EntityKind
	IterationID string
	MetricID    string // upstream key, e.g. "k24"
	Value       float64
}

// ---- Profile configuration ----

// Profile is a named playing style: a fixed, ordered set of metric ids
// whose per-entity average defines the style's raw score.
type Profile struct {
	Name      string
	MetricIDs []int
}

// ---- Normalizer output ----

// ProfileScore is one normalized style score for one entity in one
// iteration. Score is the league-relative 1-100 value; RawAvg is the
// plain metric average it was derived from.
type ProfileScore struct {
	EntityID    string
	Kind        EntityKind
	IterationID string
	ProfileName string
	Score       int
	RawAvg      float64
}

// ScoredEntity is one entity-iteration row of the comparison population:
// descriptive metadata plus its sparse profile score map. Profiles the
// entity never reached are simply absent from Scores.
type ScoredEntity struct {
	EntityID    string
	Kind        EntityKind
	Name        string
	Position    string
	SquadName   string
	IterationID string
	Season      string
	Competition string
	Scores      map[string]int // profile name -> score
}

// ---- Similarity output ----

// Neighbor is one ranked entry in a similarity lookup result.
type Neighbor struct {
	EntityID   string
	Label      string // name plus squad/season context for display
	Similarity float64
	AvgScore   float64 // mean profile score over the query's active dimensions
}
