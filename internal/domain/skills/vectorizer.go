package skills

import (
	"math"
	"sort"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Index maps a canonical skill name to its slot in the vector space.
// It is built fresh per scoring call from the union of the two skill
// sets being compared, which keeps the space minimal and deterministic
// for a given pair. It is not a global registry.
type Index map[string]int

// BuildIndex creates a joint index over the union of both skill sets.
// Slots are assigned in sorted name order for determinism.
func BuildIndex(student, opportunity model.Skills) Index {
	names := make([]string, 0, len(student)+len(opportunity))
	seen := make(map[string]struct{}, len(student)+len(opportunity))
	for name := range student {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	for name := range opportunity {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	idx := make(Index, len(names))
	for i, name := range names {
		idx[name] = i
	}
	return idx
}

// Vectorize converts a skill set into a proficiency vector over the
// index, 0 where a skill is absent.
func (idx Index) Vectorize(skills model.Skills) []float64 {
	vec := make([]float64, len(idx))
	for name, level := range skills {
		if slot, ok := idx[name]; ok {
			vec[slot] = float64(level)
		}
	}
	return vec
}

// Cosine computes the cosine similarity of two proficiency vectors,
// rounded to four decimals. Empty or zero vectors yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Round(sim*10000) / 10000
}
