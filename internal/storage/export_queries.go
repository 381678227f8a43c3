package storage

import (
	"github.com/lvdb/scoutstyles/internal/model"
)

// AllProfileScores streams the full profile_scores table joined with the
// catalog, in stable key order, for the export command.
func (db *DB) AllProfileScores() ([]model.ProfileScore, map[string]model.Iteration, error) {
	rows, err := db.conn.Query(`
		SELECT ps.entity_id, ps.entity_kind, ps.iteration_id, ps.profile_name,
		       ps.score, ps.raw_avg, i.season, i.competition
		FROM profile_scores ps
		JOIN iterations i ON i.id = ps.iteration_id
		ORDER BY ps.entity_kind, ps.entity_id, ps.iteration_id, ps.profile_name`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var out []model.ProfileScore
	iters := make(map[string]model.Iteration)
	for rows.Next() {
		var s model.ProfileScore
		var kindStr, season, competition string
		if err := rows.Scan(&s.EntityID, &kindStr, &s.IterationID, &s.ProfileName,
			&s.Score, &s.RawAvg, &season, &competition); err != nil {
			return nil, nil, err
		}
		s.Kind = model.EntityKind(kindStr)
		iters[s.IterationID] = model.Iteration{ID: s.IterationID, Season: season, Competition: competition}
		out = append(out, s)
	}
	return out, iters, rows.Err()
}
