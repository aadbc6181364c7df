// Package scoring computes explainable match scores for eligible
// (student, opportunity) pairs. Two scorers are provided: the strict
// rule-based path and the loose hybrid path that blends skill coverage
// with embedding similarity.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Matcher scores a single pair and always returns a terminal result;
// ineligibility is a first-class REJECTED result, not an error.
type Matcher interface {
	Match(ctx context.Context, student model.Student, opp model.Opportunity) model.MatchResult
}

// Default scoring weights. Kept as package constants so both scorers
// and their options share one source of truth.
const (
	defaultSimilarityWeight = 60.0
	defaultCoverageWeight   = 20.0
	defaultPreferenceBonus  = 20.0
	defaultGapFactor        = 2.0
	defaultOverqualMargin   = 2
	defaultOverqualPenalty  = 1.0

	defaultRuleWeight      = 0.6
	defaultEmbeddingWeight = 0.4

	maxScore = 100.0
)

// round2 rounds to two decimals, the precision every reported score
// carries.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampScore bounds a score to [0, maxScore].
func clampScore(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}

// splitSkills partitions the required skills into those the student
// holds and those they lack, both sorted for deterministic output.
func splitSkills(student, required model.Skills) (matched, missing []string) {
	for name := range required {
		if student.Has(name) {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}

func rejected(student model.Student, opp model.Opportunity, reasons []string) model.MatchResult {
	return model.MatchResult{
		StudentID:     student.ID,
		OpportunityID: opp.ID,
		Status:        model.StatusRejected,
		FinalScore:    0,
		Reasons:       reasons,
	}
}

func coverageNote(matched, required int) string {
	return fmt.Sprintf("matched %d of %d required skills", matched, required)
}
