package encoder

import (
	"context"
	"crypto/sha256"
	"strings"
)

const localDimension = 384

// Local is an offline backend for development and tests: embeddings
// are derived deterministically from the text hash, pair scores from
// token overlap. No network, no model weights, stable across runs.
type Local struct {
	cache *Cache
}

// NewLocal creates the offline encoder and pair scorer.
func NewLocal(cacheSize int) *Local {
	return &Local{cache: NewCache(cacheSize)}
}

// Encode returns a deterministic pseudo-embedding of the text.
// Identical texts map to identical vectors, so cosine similarity is 1
// exactly when the canonical texts match.
func (l *Local) Encode(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	hash := hashText(text)
	if vec, ok := l.cache.Get(hash); ok {
		return vec, nil
	}

	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, localDimension)
	for i := 0; i < localDimension; i++ {
		vec[i] = float32(digest[i%len(digest)]) / 255.0
	}

	l.cache.Set(hash, vec)
	return vec, nil
}

// Dimension returns the pseudo-embedding dimension.
func (l *Local) Dimension() int { return localDimension }

// Score returns token-overlap relevance on the same 0-10 scale the
// Gemini backend is prompted for: the Jaccard similarity of the two
// token sets, scaled by 10.
func (l *Local) Score(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, ErrEmptyText
	}

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var intersection int
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union) * 10, nil
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, ".,:;")] = struct{}{}
	}
	return set
}
