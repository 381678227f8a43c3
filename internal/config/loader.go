package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOUT_CONFIG is set
//  3. env (prefix SCOUT_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided.
	if path := os.Getenv("SCOUT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SCOUT_RECENT_SEASONS, SCOUT_SCORING_SPREAD, ...
	// Policy keys live one level down, so the section prefix becomes a path
	// segment: SCOUT_SCORING_SPREAD -> scoring.spread. Remaining underscores
	// stay literal (level_tolerance, recent_seasons).
	envProvider := env.Provider("SCOUT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "SCOUT_"))
		for _, section := range []string{"scoring", "similarity"} {
			if strings.HasPrefix(s, section+"_") {
				return section + "." + strings.TrimPrefix(s, section+"_")
			}
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy of the defaults.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the normalizer must never run with:
// an empty profile catalogue or a profile without metric ids. Both would
// otherwise silently produce an empty or partial score table.
func (c *Config) Validate() error {
	if len(c.SquadStyles) == 0 {
		return fmt.Errorf("%w: no squad styles defined", ErrInvalidConfig)
	}
	if len(c.PlayerProfiles) == 0 {
		return fmt.Errorf("%w: no player profiles defined", ErrInvalidConfig)
	}
	for name, ids := range c.SquadStyles {
		if len(ids) == 0 {
			return fmt.Errorf("%w: squad style %q has no metric ids", ErrInvalidConfig, name)
		}
	}
	for name, ids := range c.PlayerProfiles {
		if len(ids) == 0 {
			return fmt.Errorf("%w: player profile %q has no metric ids", ErrInvalidConfig, name)
		}
	}
	if c.Scoring.Min >= c.Scoring.Max {
		return fmt.Errorf("%w: scoring min %d must be below max %d", ErrInvalidConfig, c.Scoring.Min, c.Scoring.Max)
	}
	if c.Scoring.Spread <= 0 {
		return fmt.Errorf("%w: scoring spread must be positive", ErrInvalidConfig)
	}
	return nil
}
