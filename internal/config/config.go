// Package config defines the static configuration the scoring pipeline
// consumes: playing-style profile definitions, the position map used for
// the player drill-down, and the scoring/similarity policy constants.
//
// Profiles are data, not logic. Changing a profile definition requires a
// full `normalize` re-run, otherwise persisted scores would reflect an
// old definition.
package config

// ScoringPolicy holds the constants of the z-score to 1-100 transform.
type ScoringPolicy struct {
	Center float64 `koanf:"center"` // midpoint of the scale
	Spread float64 `koanf:"spread"` // points per standard deviation
	Min    int     `koanf:"min"`
	Max    int     `koanf:"max"`
}

// SimilarityPolicy holds the defaults of the nearest-neighbor lookup.
type SimilarityPolicy struct {
	PlayerTopK     int     `koanf:"player_top_k"`
	SquadTopK      int     `koanf:"squad_top_k"`
	LevelTolerance float64 `koanf:"level_tolerance"` // ± band on the avg score, player mode
}

// PositionMetrics lists the raw metric ids shown in the per-position
// player drill-down, split into on-ball and off-ball groups.
type PositionMetrics struct {
	OnBall  []int `koanf:"on_ball"`
	OffBall []int `koanf:"off_ball"`
}

// Config is the full static configuration.
type Config struct {
	// SquadStyles maps squad style names to their constituent metric ids.
	SquadStyles map[string][]int `koanf:"squad_styles"`

	// PlayerProfiles maps player profile names to their constituent metric ids.
	PlayerProfiles map[string][]int `koanf:"player_profiles"`

	// Positions maps position buckets to their drill-down metric groups.
	Positions map[string]PositionMetrics `koanf:"positions"`

	// RecentSeasons bounds the similarity candidate pool to a recency window.
	RecentSeasons []string `koanf:"recent_seasons"`

	Scoring    ScoringPolicy    `koanf:"scoring"`
	Similarity SimilarityPolicy `koanf:"similarity"`
}

// New returns the built-in defaults: the seven squad styles of the
// analysis platform, the player profile catalogue, and the observed
// policy constants (center 50, spread 16, ±15 level band).
func New() *Config {
	return &Config{
		SquadStyles: map[string][]int{
			"KVK STYLE OF PLAY":      {1282, 1611, 1007, 412, 162, 161, 87, 40},
			"Heavy Metal":            {24, 162, 1279, 412, 1610, 464},
			"Counter Attacking":      {162, 266, 265, 899, 40},
			"Underdog Pressure":      {901, 900, 162, 1161},
			"Direct and Aerial":      {1610, 464, 113, 96, 165, 24, 16},
			"Possession and Control": {19, 161, 106, 413, 1278, 39, 21},
			"Safety First":           {694, 1463, 108},
		},
		PlayerProfiles: map[string][]int{
			"KVK Spits":               {1610, 464, 96, 113, 24},
			"Afmaker":                 {21, 39, 165, 1278},
			"Diepteloper":             {266, 899, 40, 162},
			"Targetspits":             {1610, 464, 16, 96},
			"Baas in de Lucht":        {464, 1610, 108},
			"Voetballende Verdediger": {19, 161, 413, 1278},
			"Verdedigende Krijger":    {24, 162, 412, 694},
			"Spelmaker":               {19, 106, 39, 21, 1278},
			"Box-to-Box":              {162, 161, 412, 1161},
			"Flankflitser":            {265, 266, 87, 40},
			"Pressingmonster":         {901, 900, 1161, 162},
			"Slot op de Deur":         {694, 1463, 108},
		},
		Positions: map[string]PositionMetrics{
			"GK":   {OnBall: []int{19, 1278}, OffBall: []int{694, 1463, 108}},
			"CB":   {OnBall: []int{19, 161, 413}, OffBall: []int{24, 694, 108, 464}},
			"WB":   {OnBall: []int{265, 87, 40}, OffBall: []int{162, 412, 694}},
			"DM":   {OnBall: []int{19, 106, 413}, OffBall: []int{24, 162, 412}},
			"CM":   {OnBall: []int{19, 106, 39, 21}, OffBall: []int{162, 161, 1161}},
			"AM":   {OnBall: []int{21, 39, 106, 1278}, OffBall: []int{900, 901}},
			"WING": {OnBall: []int{265, 266, 87, 40}, OffBall: []int{899, 900}},
			"ST":   {OnBall: []int{21, 39, 165, 96}, OffBall: []int{1610, 464, 113}},
		},
		RecentSeasons: []string{"2023/2024", "2024/2025", "2025/2026"},
		Scoring: ScoringPolicy{
			Center: 50.0,
			Spread: 16.0,
			Min:    1,
			Max:    100,
		},
		Similarity: SimilarityPolicy{
			PlayerTopK:     10,
			SquadTopK:      5,
			LevelTolerance: 15.0,
		},
	}
}
