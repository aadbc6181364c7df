// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - All tunables carry koanf tags and can be overridden by file or env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration for the matching core.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DecisionLogPath locates the append-only JSONL audit log.
	DecisionLogPath string `koanf:"decision_log_path"`

	// Scoring weights for the strict rule-based path.
	SimilarityWeight float64 `koanf:"similarity_weight"`
	CoverageWeight   float64 `koanf:"coverage_weight"`
	PreferenceBonus  float64 `koanf:"preference_bonus"`
	GapFactor        float64 `koanf:"gap_factor"`
	OverqualPenalty  float64 `koanf:"overqualification_penalty"`

	// Blend weights for the loose hybrid path.
	RuleWeight      float64 `koanf:"rule_weight"`
	EmbeddingWeight float64 `koanf:"embedding_weight"`

	// Feedback decay tuning.
	FeedbackHalfLifeDays float64 `koanf:"feedback_half_life_days"`
	FeedbackMaxBoost     float64 `koanf:"feedback_max_boost"`

	// Re-ranking: candidate cap and cross-encoder blend weight.
	RerankSize         int     `koanf:"rerank_size"`
	CrossEncoderWeight float64 `koanf:"cross_encoder_weight"`

	// Encoder backend selection: gemini or local.
	EncoderProvider  string `koanf:"encoder_provider"`
	GeminiAPIKey     string `koanf:"gemini_api_key"`
	EmbedModel       string `koanf:"embed_model"`
	ScoreModel       string `koanf:"score_model"`
	EmbedDimension   int    `koanf:"embed_dimension"`
	EncoderCacheSize int    `koanf:"encoder_cache_size"`

	// ScoringConcurrency bounds parallel per-opportunity scoring in a
	// batch recommendation.
	ScoringConcurrency int `koanf:"scoring_concurrency"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		DecisionLogPath:      "logs/match_decisions.jsonl",
		SimilarityWeight:     60,
		CoverageWeight:       20,
		PreferenceBonus:      20,
		GapFactor:            2,
		OverqualPenalty:      1,
		RuleWeight:           0.6,
		EmbeddingWeight:      0.4,
		FeedbackHalfLifeDays: 7,
		FeedbackMaxBoost:     12,
		RerankSize:           10,
		CrossEncoderWeight:   0.3,
		EncoderProvider:      "local",
		EmbedDimension:       768,
		EncoderCacheSize:     10000,
		ScoringConcurrency:   8,
	}
}
