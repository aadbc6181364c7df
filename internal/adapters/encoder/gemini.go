package encoder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// Gemini model defaults.
const (
	defaultEmbedModel = "gemini-embedding-001"
	defaultScoreModel = "gemini-2.5-flash"
	defaultDimension  = 768
)

const scorePromptTemplate = `You are a relevance model for matching students to internships.
Rate how relevant the internship is for the student on a 0-10 scale,
where 10 is a perfect match. Respond with JSON only, no prose:
{"score": <number>}

Student:
%s

Internship:
%s

JSON Response:`

// Gemini backs both the text encoder and the pairwise relevance
// scorer with the Gemini API: embeddings via EmbedContent, pair scores
// via a generative prompt that returns a single JSON number.
type Gemini struct {
	client     *genai.Client
	embedModel string
	scoreModel string
	dimension  int
	cache      *Cache
	retry      RetryConfig
}

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey     string
	EmbedModel string
	ScoreModel string
	Dimension  int
	CacheSize  int
}

// NewGemini creates a Gemini-backed encoder and pair scorer.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &Gemini{
		client:     client,
		embedModel: strings.TrimSpace(cfg.EmbedModel),
		scoreModel: strings.TrimSpace(cfg.ScoreModel),
		dimension:  cfg.Dimension,
		cache:      NewCache(cfg.CacheSize),
		retry:      DefaultRetryConfig(),
	}
	if g.embedModel == "" {
		g.embedModel = defaultEmbedModel
	}
	if g.scoreModel == "" {
		g.scoreModel = defaultScoreModel
	}
	if g.dimension <= 0 {
		g.dimension = defaultDimension
	}
	return g, nil
}

// Encode embeds text via the Gemini embedding model. Results are
// cached by content hash; the model is deterministic for a given
// version, so a hit is equivalent to a fresh call.
func (g *Gemini) Encode(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	hash := hashText(text)
	if vec, ok := g.cache.Get(hash); ok {
		return vec, nil
	}

	dim := int32(g.dimension)
	vec, err := retryWithBackoff(ctx, g.retry, func() ([]float32, error) {
		resp, err := g.client.Models.EmbedContent(ctx, g.embedModel,
			genai.Text(text),
			&genai.EmbedContentConfig{OutputDimensionality: &dim},
		)
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return nil, ErrEmptyResponse
		}
		return resp.Embeddings[0].Values, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embed content: %v", ErrBackendFailed, err)
	}

	g.cache.Set(hash, vec)
	return vec, nil
}

// Dimension returns the configured embedding dimension.
func (g *Gemini) Dimension() int { return g.dimension }

// Score asks the generative model for a pairwise relevance number.
// Higher means a better match; the raw value is whatever the model
// returns on the prompt's 0-10 scale.
func (g *Gemini) Score(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, ErrEmptyText
	}

	prompt := fmt.Sprintf(scorePromptTemplate, a, b)

	raw, err := retryWithBackoff(ctx, g.retry, func() (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.scoreModel, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return collectText(resp), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: generate content: %v", ErrBackendFailed, err)
	}
	if raw == "" {
		return 0, ErrEmptyResponse
	}

	score, err := parseScore(raw)
	if err != nil {
		return 0, fmt.Errorf("parse gemini response: %w", err)
	}
	return score, nil
}

// collectText concatenates the textual parts of every candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

// parseScore extracts the numeric score from a model response that
// should be JSON but may arrive fenced or as a bare number.
func parseScore(raw string) (float64, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		score := coerceFloat(data["score"])
		if math.IsNaN(score) {
			return 0, fmt.Errorf("%w: no usable score field", ErrEmptyResponse)
		}
		return score, nil
	}

	// Some responses are just the number.
	if f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64); err == nil {
		return f, nil
	}
	return 0, fmt.Errorf("%w: unparseable score payload", ErrEmptyResponse)
}

// extractJSON strips markdown code fences the model sometimes wraps
// around its JSON payload.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
