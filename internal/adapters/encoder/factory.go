// Package encoder provides the model backends behind the encoding
// contracts: a Gemini-backed provider for production and a
// deterministic local provider for offline and test use.
package encoder

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// Config selects and configures a backend.
type Config struct {
	Provider   string
	APIKey     string
	EmbedModel string
	ScoreModel string
	Dimension  int
	CacheSize  int
}

// Backend is the union of the two model contracts; both providers
// implement encoding.Encoder and encoding.PairScorer.
type Backend interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Score(ctx context.Context, a, b string) (float64, error)
}

// New creates the backend named by cfg.Provider. An empty provider
// falls back to the local backend so the pipeline stays usable without
// credentials.
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			EmbedModel: cfg.EmbedModel,
			ScoreModel: cfg.ScoreModel,
			Dimension:  cfg.Dimension,
			CacheSize:  cfg.CacheSize,
		})
	case ProviderLocal, "":
		return NewLocal(cfg.CacheSize), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
