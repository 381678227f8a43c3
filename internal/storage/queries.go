package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lvdb/scoutstyles/internal/model"
)

// UpsertIterations inserts or replaces iteration catalog rows in a transaction.
func (db *DB) UpsertIterations(iters []model.Iteration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO iterations(id, season, competition)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range iters {
		if _, err := stmt.Exec(it.ID, it.Season, it.Competition); err != nil {
			return fmt.Errorf("insert iteration %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertEntities inserts or replaces entity rows in a transaction.
func (db *DB) UpsertEntities(entities []model.Entity) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO entities(id, kind, name, position, squad_name)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entities {
		if _, err := stmt.Exec(e.ID, string(e.Kind), e.Name, e.Position, e.SquadName); err != nil {
			return fmt.Errorf("insert entity %s/%s: %w", e.Kind, e.ID, err)
		}
	}
	return tx.Commit()
}

// InsertMetricScores bulk-inserts upstream metric rows in a transaction.
// Uses INSERT OR REPLACE so a re-import of the same feed is idempotent.
func (db *DB) InsertMetricScores(scores []model.MetricScore) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO metric_scores(entity_id, entity_kind, iteration_id, metric_id, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range scores {
		if _, err := stmt.Exec(s.EntityID, string(s.Kind), s.IterationID, s.MetricID, s.Value); err != nil {
			return fmt.Errorf("insert metric_scores for %s/%s: %w", s.EntityID, s.MetricID, err)
		}
	}
	return tx.Commit()
}

// MetricScoresForProfile returns every metric row of the given kind whose
// metric id belongs to the profile. One parameterized IN query serves all
// profiles; no per-profile SQL text.
func (db *DB) MetricScoresForProfile(kind model.EntityKind, metricIDs []int) ([]model.MetricScore, error) {
	if len(metricIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(metricIDs)+1)
	args = append(args, string(kind))
	for _, id := range metricIDs {
		args = append(args, model.MetricKey(id))
	}

	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT entity_id, iteration_id, metric_id, value
		FROM metric_scores
		WHERE entity_kind = ? AND metric_id IN (%s)
		ORDER BY entity_id, iteration_id, metric_id`, placeholders(len(metricIDs))), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MetricScore
	for rows.Next() {
		s := model.MetricScore{Kind: kind}
		if err := rows.Scan(&s.EntityID, &s.IterationID, &s.MetricID, &s.Value); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceProfileScores rebuilds the profile_scores table from scratch inside
// a single transaction: readers observe either the previous complete
// generation or the new one, never an empty or half-written table. Any
// failure rolls the whole rebuild back.
func (db *DB) ReplaceProfileScores(scores []model.ProfileScore) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM profile_scores`); err != nil {
		return fmt.Errorf("clear profile_scores: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO profile_scores(entity_id, entity_kind, iteration_id, profile_name, score, raw_avg)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range scores {
		if _, err := stmt.Exec(s.EntityID, string(s.Kind), s.IterationID, s.ProfileName, s.Score, s.RawAvg); err != nil {
			return fmt.Errorf("insert profile_scores for %s/%s/%s: %w", s.EntityID, s.IterationID, s.ProfileName, err)
		}
	}
	return tx.Commit()
}

// ProfileScoresFor returns an entity's profile scores within one iteration,
// keyed by profile name.
func (db *DB) ProfileScoresFor(entityID string, kind model.EntityKind, iterationID string) (map[string]model.ProfileScore, error) {
	rows, err := db.conn.Query(`
		SELECT profile_name, score, raw_avg
		FROM profile_scores
		WHERE entity_id = ? AND entity_kind = ? AND iteration_id = ?`,
		entityID, string(kind), iterationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.ProfileScore)
	for rows.Next() {
		s := model.ProfileScore{EntityID: entityID, Kind: kind, IterationID: iterationID}
		if err := rows.Scan(&s.ProfileName, &s.Score, &s.RawAvg); err != nil {
			return nil, err
		}
		out[s.ProfileName] = s
	}
	return out, rows.Err()
}

// AllProfileScoresFor returns an entity's profile scores across every
// iteration, joined with the catalog for display.
func (db *DB) AllProfileScoresFor(entityID string, kind model.EntityKind) ([]model.ProfileScore, map[string]model.Iteration, error) {
	rows, err := db.conn.Query(`
		SELECT ps.iteration_id, ps.profile_name, ps.score, ps.raw_avg,
		       i.season, i.competition
		FROM profile_scores ps
		JOIN iterations i ON i.id = ps.iteration_id
		WHERE ps.entity_id = ? AND ps.entity_kind = ?
		ORDER BY i.season DESC, ps.profile_name`,
		entityID, string(kind))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var out []model.ProfileScore
	iters := make(map[string]model.Iteration)
	for rows.Next() {
		s := model.ProfileScore{EntityID: entityID, Kind: kind}
		var season, competition string
		if err := rows.Scan(&s.IterationID, &s.ProfileName, &s.Score, &s.RawAvg, &season, &competition); err != nil {
			return nil, nil, err
		}
		iters[s.IterationID] = model.Iteration{ID: s.IterationID, Season: season, Competition: competition}
		out = append(out, s)
	}
	return out, iters, rows.Err()
}

// GetEntity looks up one entity. Returns (nil, nil) when absent.
func (db *DB) GetEntity(id string, kind model.EntityKind) (*model.Entity, error) {
	var e model.Entity
	var kindStr string
	err := db.conn.QueryRow(`
		SELECT id, kind, name, position, squad_name
		FROM entities WHERE id = ? AND kind = ?`, id, string(kind)).
		Scan(&e.ID, &kindStr, &e.Name, &e.Position, &e.SquadName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Kind = model.EntityKind(kindStr)
	return &e, nil
}

// GetIteration looks up one iteration. Returns (nil, nil) when absent.
func (db *DB) GetIteration(id string) (*model.Iteration, error) {
	var it model.Iteration
	err := db.conn.QueryRow(`
		SELECT id, season, competition FROM iterations WHERE id = ?`, id).
		Scan(&it.ID, &it.Season, &it.Competition)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListIterations returns the full iteration catalog, newest season first.
func (db *DB) ListIterations() ([]model.Iteration, error) {
	rows, err := db.conn.Query(`
		SELECT id, season, competition FROM iterations
		ORDER BY season DESC, competition`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Iteration
	for rows.Next() {
		var it model.Iteration
		if err := rows.Scan(&it.ID, &it.Season, &it.Competition); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CandidatePool returns the comparison population for a similarity lookup:
// every other entity-iteration of the same kind within the recent-season
// window, with its sparse profile score map. For players a non-empty
// position restricts the pool to the same bucket; squads share one pool.
// Rows come back ordered by entity and iteration id so downstream ranking
// is deterministic.
func (db *DB) CandidatePool(kind model.EntityKind, position string, seasons []string, excludeID string) ([]model.ScoredEntity, error) {
	if len(seasons) == 0 {
		return nil, nil
	}
	args := []any{string(kind)}
	for _, s := range seasons {
		args = append(args, s)
	}
	posFilter := ""
	if position != "" {
		posFilter = "AND e.position = ?"
		args = append(args, position)
	}
	args = append(args, excludeID)

	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT ps.entity_id, e.name, e.position, e.squad_name,
		       ps.iteration_id, i.season, i.competition,
		       ps.profile_name, ps.score
		FROM profile_scores ps
		JOIN entities e ON e.id = ps.entity_id AND e.kind = ps.entity_kind
		JOIN iterations i ON i.id = ps.iteration_id
		WHERE ps.entity_kind = ?
		  AND i.season IN (%s)
		  %s
		  AND ps.entity_id != ?
		ORDER BY ps.entity_id, ps.iteration_id`, placeholders(len(seasons)), posFilter), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScoredEntity
	var cur *model.ScoredEntity
	for rows.Next() {
		var entityID, name, pos, squadName, iterID, season, competition, profile string
		var score int
		if err := rows.Scan(&entityID, &name, &pos, &squadName, &iterID, &season, &competition, &profile, &score); err != nil {
			return nil, err
		}
		if cur == nil || cur.EntityID != entityID || cur.IterationID != iterID {
			out = append(out, model.ScoredEntity{
				EntityID:    entityID,
				Kind:        kind,
				Name:        name,
				Position:    pos,
				SquadName:   squadName,
				IterationID: iterID,
				Season:      season,
				Competition: competition,
				Scores:      make(map[string]int),
			})
			cur = &out[len(out)-1]
		}
		cur.Scores[profile] = score
	}
	return out, rows.Err()
}

// MetricValuesFor returns an entity's raw metric values within one iteration,
// restricted to the given metric ids, keyed by upstream metric key.
func (db *DB) MetricValuesFor(entityID string, kind model.EntityKind, iterationID string, metricIDs []int) (map[string]float64, error) {
	if len(metricIDs) == 0 {
		return nil, nil
	}
	args := []any{entityID, string(kind), iterationID}
	for _, id := range metricIDs {
		args = append(args, model.MetricKey(id))
	}

	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT metric_id, value
		FROM metric_scores
		WHERE entity_id = ? AND entity_kind = ? AND iteration_id = ?
		  AND metric_id IN (%s)`, placeholders(len(metricIDs))), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

// Overview holds the headline counts for the summary command.
type Overview struct {
	Iterations    int
	Players       int
	Squads        int
	MetricRows    int
	ProfileRows   int
	Profiles      int
	LatestSeason  string
	OldestSeason  string
}

// GetOverview returns aggregate counts across the whole store.
func (db *DB) GetOverview() (*Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM iterations),
			(SELECT COUNT(1) FROM entities WHERE kind = 'player'),
			(SELECT COUNT(1) FROM entities WHERE kind = 'squad'),
			(SELECT COUNT(1) FROM metric_scores),
			(SELECT COUNT(1) FROM profile_scores),
			(SELECT COUNT(DISTINCT profile_name) FROM profile_scores),
			(SELECT COALESCE(MAX(season), '') FROM iterations),
			(SELECT COALESCE(MIN(season), '') FROM iterations)`).
		Scan(&ov.Iterations, &ov.Players, &ov.Squads, &ov.MetricRows,
			&ov.ProfileRows, &ov.Profiles, &ov.LatestSeason, &ov.OldestSeason)
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// placeholders returns "?, ?, ..., ?" with n entries.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
