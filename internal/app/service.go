// Package service provides the matching core's caller-facing surface:
// single-pair matching, batch recommendation with feedback boost and
// top-K re-ranking, and feedback capture.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/placewise/matchcore/internal/adapters/decisionlog"
	"github.com/placewise/matchcore/internal/domain/eligibility"
	"github.com/placewise/matchcore/internal/domain/encoding"
	"github.com/placewise/matchcore/internal/domain/feedback"
	"github.com/placewise/matchcore/internal/domain/model"
	"github.com/placewise/matchcore/internal/domain/rerank"
	"github.com/placewise/matchcore/internal/domain/scoring"
	"github.com/placewise/matchcore/pkg/logger"
	"github.com/placewise/matchcore/pkg/metrics"
)

const defaultTopN = 5

// Service implements the matching pipeline end to end. All state it
// holds is either immutable configuration or injected collaborators;
// each call is request-scoped and safe to run concurrently.
type Service struct {
	ruleScorer   scoring.Matcher
	hybridScorer scoring.Matcher
	reranker     *rerank.ReRanker
	feedback     feedback.Store
	decisions    *decisionlog.Logger
	metrics      *metrics.Manager
	logger       logger.Logger

	concurrency int

	// ceGate serializes cross-encoder usage across concurrent
	// recommendation calls; the model is the expensive resource.
	ceGate *semaphore.Weighted
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager observing decisions.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithFeedbackStore sets the feedback store.
func WithFeedbackStore(store feedback.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.feedback = store
		}
	}
}

// WithDecisionLog sets the append-only decision logger.
func WithDecisionLog(l *decisionlog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.decisions = l
		}
	}
}

// WithRuleScorer replaces the strict-path scorer.
func WithRuleScorer(m scoring.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.ruleScorer = m
		}
	}
}

// WithHybridScorer replaces the loose-path scorer.
func WithHybridScorer(m scoring.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.hybridScorer = m
		}
	}
}

// WithReRanker sets the top-K re-ranker.
func WithReRanker(r *rerank.ReRanker) Option {
	return func(s *Service) {
		if r != nil {
			s.reranker = r
		}
	}
}

// WithEncoder builds the default hybrid scorer on the given embedding
// backend. Ignored when WithHybridScorer is also supplied later in the
// option list.
func WithEncoder(e encoding.Encoder) Option {
	return func(s *Service) {
		if e != nil {
			s.hybridScorer = scoring.NewHybridScorer(e)
		}
	}
}

// WithScoringConcurrency bounds parallel per-opportunity scoring.
func WithScoringConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New constructs a Service with default configuration. Without options
// the hybrid path runs degraded (no encoder) and re-ranking passes
// through, so a bare Service is still usable for the rule path.
func New(opts ...Option) *Service {
	s := &Service{
		concurrency: 8,
		ceGate:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Defaults fill in after the options so an unused default metrics
	// manager never registers collectors on the global registry.
	if s.ruleScorer == nil {
		s.ruleScorer = scoring.NewRuleScorer()
	}
	if s.hybridScorer == nil {
		s.hybridScorer = scoring.NewHybridScorer(nil)
	}
	if s.reranker == nil {
		s.reranker = rerank.New(nil)
	}
	if s.feedback == nil {
		s.feedback = feedback.NewInMemoryStore()
	}
	if s.decisions == nil {
		s.decisions = decisionlog.New()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// matcherFor maps an eligibility policy to its scoring path.
func (s *Service) matcherFor(policy eligibility.Policy) (scoring.Matcher, error) {
	switch policy {
	case eligibility.PolicyStrict:
		return s.ruleScorer, nil
	case eligibility.PolicyLenient:
		return s.hybridScorer, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
	}
}

// Match scores a single pair on the path selected by policy: strict
// runs the rule-based scorer, lenient the hybrid scorer. Ineligibility
// is a REJECTED result, not an error; errors are reserved for
// malformed input.
func (s *Service) Match(ctx context.Context, student model.Student, opp model.Opportunity, policy eligibility.Policy) (model.MatchResult, error) {
	if err := student.Validate(); err != nil {
		return model.MatchResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := opp.Validate(); err != nil {
		return model.MatchResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	matcher, err := s.matcherFor(policy)
	if err != nil {
		return model.MatchResult{}, err
	}

	start := time.Now()
	result := matcher.Match(ctx, student, opp)
	s.metrics.ObserveScoringLatency(time.Since(start).Seconds())

	s.observe(ctx, result)
	return result, nil
}

// RecommendRequest is one batch recommendation call.
type RecommendRequest struct {
	Student       model.Student
	Opportunities []model.Opportunity
	TopN          int
	Policy        eligibility.Policy

	// ApplyFeedback adds the decayed interaction boost to each
	// matched candidate before ranking.
	ApplyFeedback bool

	// Rerank runs the cross-encoder over the top-K of the first-pass
	// ranking.
	Rerank bool
}

// Recommend scores every opportunity for the student, ranks the
// matches, optionally boosts them with decayed feedback, optionally
// re-ranks the top K with the cross-encoder, and returns the top N.
//
// Rejected pairs are observed by the decision log and metrics but do
// not appear in the ranking. Output order is total by final score with
// ties broken by input order, so identical inputs and an identical
// feedback snapshot always produce the same list.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) ([]model.Candidate, error) {
	if err := req.Student.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, opp := range req.Opportunities {
		if err := opp.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	matcher, err := s.matcherFor(req.Policy)
	if err != nil {
		return nil, err
	}

	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	// Score every pair; the scorer is pure per pair, so fan out with a
	// bounded group. Results land in input order.
	results := make([]model.MatchResult, len(req.Opportunities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, opp := range req.Opportunities {
		g.Go(func() error {
			start := time.Now()
			results[i] = matcher.Match(gctx, req.Student, opp)
			s.metrics.ObserveScoringLatency(time.Since(start).Seconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	oppByID := make(map[string]model.Opportunity, len(req.Opportunities))
	candidates := make([]model.Candidate, 0, len(results))
	for i, result := range results {
		s.observe(ctx, result)
		if result.Status != model.StatusMatched {
			continue
		}
		oppByID[result.OpportunityID] = req.Opportunities[i]

		candidate := model.Candidate{
			OpportunityID: result.OpportunityID,
			BaseScore:     result.FinalScore,
			FinalScore:    result.FinalScore,
			Explanation:   result.Explanation,
		}
		if req.ApplyFeedback {
			boost := s.feedback.Boost(ctx, req.Student.ID, result.OpportunityID)
			candidate.FeedbackBoost = boost
			candidate.FinalScore = round2(result.FinalScore + boost)
		}
		candidate.SetInputOrder(i)
		candidates = append(candidates, candidate)
	}

	// Score descending, equal scores kept in the caller's input order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].FinalScore != candidates[j].FinalScore {
			return candidates[i].FinalScore > candidates[j].FinalScore
		}
		return candidates[i].InputOrder() < candidates[j].InputOrder()
	})

	if req.Rerank {
		candidates = s.rerankTop(ctx, req.Student, candidates, oppByID)
	}

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// rerankTop applies the cross-encoder to the leading candidates only;
// the rest of the ranking rides along unchanged. A failing re-rank
// falls back to the first-pass order rather than aborting the
// response.
func (s *Service) rerankTop(ctx context.Context, student model.Student, candidates []model.Candidate, oppByID map[string]model.Opportunity) []model.Candidate {
	k := s.reranker.MaxCandidates()
	if k > len(candidates) {
		k = len(candidates)
	}
	if k == 0 {
		return candidates
	}

	// One re-rank at a time process-wide; cross-encoder calls are the
	// expensive resource.
	if err := s.ceGate.Acquire(ctx, 1); err != nil {
		s.metrics.RecordRerankFallback()
		s.logger.Warn(ctx, "re-ranking skipped", logger.Error(err))
		return candidates
	}
	defer s.ceGate.Release(1)

	reranked, err := s.reranker.Rerank(ctx, student, candidates[:k], oppByID)
	if err != nil {
		s.metrics.RecordRerankFallback()
		s.logger.Warn(ctx, "re-ranking degraded to first-pass order",
			logger.String("student", student.ID),
			logger.Error(err),
		)
	}

	out := make([]model.Candidate, 0, len(candidates))
	out = append(out, reranked...)
	out = append(out, candidates[k:]...)
	return out
}

// SubmitFeedback records one interaction event. Unknown actions are
// acknowledged and dropped, matching the store's no-op contract.
func (s *Service) SubmitFeedback(ctx context.Context, studentID, opportunityID string, action model.Action) error {
	if studentID == "" || opportunityID == "" {
		return fmt.Errorf("%w: %v", ErrInvalidInput, model.ErrEmptyID)
	}
	s.feedback.Record(ctx, studentID, opportunityID, action)
	s.metrics.RecordFeedback(string(action))
	return nil
}

// ComparedRanking is one model's ordering in a comparison run.
type ComparedRanking struct {
	OpportunityID string       `json:"opportunity_id"`
	Status        model.Status `json:"status"`
	Score         float64      `json:"score"`
}

// Compare runs the rule-based and hybrid scorers side by side over the
// same opportunity set and returns both rankings, for offline model
// evaluation.
func (s *Service) Compare(ctx context.Context, student model.Student, opps []model.Opportunity) (ruleRanking, hybridRanking []ComparedRanking, err error) {
	if err := student.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, opp := range opps {
		if err := opp.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		ruleResult := s.ruleScorer.Match(ctx, student, opp)
		ruleRanking = append(ruleRanking, ComparedRanking{
			OpportunityID: opp.ID,
			Status:        ruleResult.Status,
			Score:         ruleResult.FinalScore,
		})

		hybridResult := s.hybridScorer.Match(ctx, student, opp)
		hybridRanking = append(hybridRanking, ComparedRanking{
			OpportunityID: opp.ID,
			Status:        hybridResult.Status,
			Score:         hybridResult.FinalScore,
		})
	}

	byScore := func(ranking []ComparedRanking) func(i, j int) bool {
		return func(i, j int) bool { return ranking[i].Score > ranking[j].Score }
	}
	sort.SliceStable(ruleRanking, byScore(ruleRanking))
	sort.SliceStable(hybridRanking, byScore(hybridRanking))

	return ruleRanking, hybridRanking, nil
}

// Snapshot is the read-only analytics view for product dashboards.
type Snapshot struct {
	TopRejections []metrics.Sample `json:"top_rejection_reasons"`
	TopSkills     []metrics.Sample `json:"top_matched_skills"`
}

// MetricsSnapshot returns the n most frequent rejection reasons and
// matched skills.
func (s *Service) MetricsSnapshot(n int) Snapshot {
	return Snapshot{
		TopRejections: s.metrics.TopRejections(n),
		TopSkills:     s.metrics.TopSkills(n),
	}
}

// observe feeds one terminal decision to metrics and the audit log.
// Logging is best effort; a write failure is counted, never surfaced.
func (s *Service) observe(ctx context.Context, result model.MatchResult) {
	switch result.Status {
	case model.StatusMatched:
		s.metrics.RecordMatch(result.Explanation.MatchedSkills)
		if result.Explanation.Degraded {
			s.metrics.RecordEncoderDegradation()
		}
	case model.StatusRejected:
		s.metrics.RecordRejection(result.Reasons)
	}

	if err := s.decisions.Append(result); err != nil {
		s.metrics.RecordLogFailure()
		s.logger.Warn(ctx, "decision log write failed",
			logger.String("student", result.StudentID),
			logger.String("opportunity", result.OpportunityID),
			logger.Error(err),
		)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
