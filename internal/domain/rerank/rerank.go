// Package rerank applies the expensive pairwise relevance model to a
// small, pre-ranked top-K candidate set.
package rerank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/placewise/matchcore/internal/domain/encoding"
	"github.com/placewise/matchcore/internal/domain/model"
)

// Defaults. The candidate cap exists because each cross-encoder call
// is a model-inference round trip; re-ranking a full result set is
// intentionally disallowed.
const (
	DefaultMaxCandidates      = 10
	DefaultCrossEncoderWeight = 0.3
)

// Option applies a configuration option to the ReRanker.
type Option func(*ReRanker)

// WithMaxCandidates sets the largest candidate set Rerank accepts.
func WithMaxCandidates(n int) Option {
	return func(r *ReRanker) {
		if n > 0 {
			r.maxCandidates = n
		}
	}
}

// WithCrossEncoderWeight sets the blend weight of the cross-encoder
// score against the previous final score. Must stay below 1 so the
// first-pass ranking remains dominant.
func WithCrossEncoderWeight(w float64) Option {
	return func(r *ReRanker) {
		if w > 0 && w < 1 {
			r.weight = w
		}
	}
}

// ReRanker blends cross-encoder relevance into pre-ranked candidates
// and re-sorts them.
type ReRanker struct {
	scorer encoding.PairScorer

	weight        float64
	maxCandidates int
}

// New creates a ReRanker backed by the given pair scorer.
func New(scorer encoding.PairScorer, opts ...Option) *ReRanker {
	r := &ReRanker{
		scorer:        scorer,
		weight:        DefaultCrossEncoderWeight,
		maxCandidates: DefaultMaxCandidates,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxCandidates reports the cap enforced by Rerank.
func (r *ReRanker) MaxCandidates() int { return r.maxCandidates }

// Rerank scores every candidate against the student text and re-sorts
// descending by the blended score, ties broken by input order. The raw
// cross-encoder score is retained on each candidate for transparency.
//
// Candidates beyond the cap are refused outright. A failing or
// timed-out cross-encoder call degrades gracefully: the input ordering
// is returned unchanged alongside the error, so the caller can fall
// back to the first-pass ranking instead of aborting the response.
func (r *ReRanker) Rerank(ctx context.Context, student model.Student, candidates []model.Candidate, opportunities map[string]model.Opportunity) ([]model.Candidate, error) {
	if len(candidates) > r.maxCandidates {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyCandidates, len(candidates), r.maxCandidates)
	}

	if r.scorer == nil {
		return r.passthrough(candidates), ErrNoPairScorer
	}

	studentText := encoding.StudentText(student)

	// Score every candidate before blending anything, so a failure
	// partway through never leaks a half-re-ranked list.
	ceScores := make([]float64, len(candidates))
	for i := range candidates {
		opp, ok := opportunities[candidates[i].OpportunityID]
		if !ok {
			return r.passthrough(candidates), fmt.Errorf("%w: %s", ErrUnknownOpportunity, candidates[i].OpportunityID)
		}

		ceScore, err := r.scorer.Score(ctx, studentText, encoding.OpportunityText(opp))
		if err != nil {
			return r.passthrough(candidates), fmt.Errorf("cross-encoder score: %w", err)
		}
		ceScores[i] = ceScore
	}

	out := make([]model.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].CrossEncoderScore = round2(ceScores[i])
		out[i].FinalScore = round2((1-r.weight)*out[i].FinalScore + r.weight*ceScores[i])
		out[i].Explanation.Breakdown.CrossEncoderScore = round2(ceScores[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})

	return out, nil
}

// passthrough restores the pre-rerank ordering and flags each
// candidate as degraded.
func (r *ReRanker) passthrough(candidates []model.Candidate) []model.Candidate {
	out := make([]model.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Explanation.Degraded = true
		out[i].Explanation.Notes = append(out[i].Explanation.Notes, "re-ranking skipped: cross-encoder unavailable")
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
