// Package encoding defines the contracts for the pluggable text
// embedding and pairwise relevance models, plus the canonical text
// built from domain objects before either model sees them.
//
// Scoring and re-ranking depend only on these interfaces; a model
// backend can be swapped without touching the pipeline.
package encoding

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Encoder embeds arbitrary text into a fixed-dimension dense vector.
// Deterministic for a given model version; no online learning.
type Encoder interface {
	// Encode returns the embedding for text, honoring ctx for
	// cancellation. Treated as a network/model-inference call.
	Encode(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding dimension of this backend.
	Dimension() int
}

// PairScorer returns a single pairwise relevance scalar for two texts.
// The score is unbounded but monotonic with "better match". Calls are
// expensive; callers must restrict invocation count to a small top-K
// candidate set.
type PairScorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

// SkillsText joins skill names into one text blob for embedding.
// Names are sorted so the text, and therefore the embedding, is
// deterministic for a given skill set.
func SkillsText(skills model.Skills) string {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

// StudentText builds the canonical sentence describing a student.
func StudentText(s model.Student) string {
	var b strings.Builder
	b.WriteString("Student skills: ")
	b.WriteString(skillList(s.Skills))
	b.WriteString(". Year: ")
	b.WriteString(strconv.Itoa(s.Year))
	b.WriteString(". Location: ")
	b.WriteString(s.Location)
	b.WriteString(".")
	return b.String()
}

// OpportunityText builds the canonical sentence describing an
// opportunity.
func OpportunityText(o model.Opportunity) string {
	var b strings.Builder
	b.WriteString("Internship requires skills: ")
	b.WriteString(skillList(o.RequiredSkills))
	b.WriteString(". Minimum year: ")
	b.WriteString(strconv.Itoa(o.MinYear))
	b.WriteString(". Location: ")
	b.WriteString(o.Location)
	b.WriteString(". Remote: ")
	if o.IsRemote {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteString(".")
	return b.String()
}

// Cosine computes cosine similarity between two embeddings. Mismatched
// lengths and zero vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func skillList(skills model.Skills) string {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

