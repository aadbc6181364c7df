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
//  2. file (YAML) if MATCHCORE_CONFIG is set
//  3. env (prefix MATCHCORE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MATCHCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: MATCHCORE_RERANK_SIZE -> rerank_size.
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("MATCHCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "matchcore_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RerankSize <= 0 {
		return fmt.Errorf("%w: rerank_size must be positive", ErrInvalidConfig)
	}
	if c.CrossEncoderWeight <= 0 || c.CrossEncoderWeight >= 1 {
		return fmt.Errorf("%w: cross_encoder_weight must be in (0, 1)", ErrInvalidConfig)
	}
	if c.RuleWeight <= 0 || c.EmbeddingWeight <= 0 {
		return fmt.Errorf("%w: hybrid weights must be positive", ErrInvalidConfig)
	}
	if c.FeedbackHalfLifeDays <= 0 {
		return fmt.Errorf("%w: feedback_half_life_days must be positive", ErrInvalidConfig)
	}
	if c.ScoringConcurrency <= 0 {
		return fmt.Errorf("%w: scoring_concurrency must be positive", ErrInvalidConfig)
	}
	return nil
}
