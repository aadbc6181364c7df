package scoring

import (
	"context"
	"fmt"

	"github.com/placewise/matchcore/internal/domain/eligibility"
	"github.com/placewise/matchcore/internal/domain/encoding"
	"github.com/placewise/matchcore/internal/domain/model"
	"github.com/placewise/matchcore/internal/domain/skills"
)

// HybridOption applies a configuration option to the HybridScorer.
type HybridOption func(*HybridScorer)

// WithHybridTaxonomy sets a custom skill taxonomy.
func WithHybridTaxonomy(t *skills.Taxonomy) HybridOption {
	return func(s *HybridScorer) {
		if t != nil {
			s.taxonomy = t
		}
	}
}

// WithHybridWeights sets the rule/embedding blend. Both weights must be
// positive; they are used as given, so callers normally pass a pair
// summing to 1.
func WithHybridWeights(rule, embedding float64) HybridOption {
	return func(s *HybridScorer) {
		if rule > 0 && embedding > 0 {
			s.ruleWeight = rule
			s.embeddingWeight = embedding
		}
	}
}

// HybridScorer implements the loose scoring path: year and location
// gating only, with skill shortfall absorbed into a blended coverage
// plus embedding-similarity score.
type HybridScorer struct {
	taxonomy *skills.Taxonomy
	encoder  encoding.Encoder

	ruleWeight      float64
	embeddingWeight float64
}

// NewHybridScorer creates a hybrid scorer backed by the given encoder.
func NewHybridScorer(encoder encoding.Encoder, opts ...HybridOption) *HybridScorer {
	s := &HybridScorer{
		taxonomy:        skills.NewTaxonomy(),
		encoder:         encoder,
		ruleWeight:      defaultRuleWeight,
		embeddingWeight: defaultEmbeddingWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Match scores one pair. When the encoder is unavailable the embedding
// term is dropped and the coverage score stands alone with its weight
// renormalized; the result is flagged as degraded instead of failing
// the whole call.
func (s *HybridScorer) Match(ctx context.Context, student model.Student, opp model.Opportunity) model.MatchResult {
	studentSkills := s.taxonomy.NormalizeSkills(student.Skills)
	requiredSkills := s.taxonomy.NormalizeSkills(opp.RequiredSkills)

	normStudent := student
	normStudent.Skills = studentSkills
	normOpp := opp
	normOpp.RequiredSkills = requiredSkills

	eligible, reasons := eligibility.Check(eligibility.PolicyLenient, normStudent, normOpp)
	if !eligible {
		return rejected(student, opp, reasons)
	}

	matched, missing := splitSkills(studentSkills, requiredSkills)
	ruleScore := float64(len(matched)) / float64(len(requiredSkills)) * maxScore

	embeddingScore, degraded, note := s.embeddingScore(ctx, studentSkills, requiredSkills)

	var finalScore float64
	ruleWeight, embeddingWeight := s.ruleWeight, s.embeddingWeight
	if degraded {
		// Weight renormalized: coverage carries the whole score.
		ruleWeight, embeddingWeight = 1, 0
		finalScore = ruleScore
	} else {
		finalScore = ruleWeight*ruleScore + embeddingWeight*embeddingScore
	}
	finalScore = round2(clampScore(finalScore))

	explanation := model.Explanation{
		MatchedSkills: matched,
		MissingSkills: missing,
		Breakdown: model.Breakdown{
			RuleScore:       round2(ruleScore),
			EmbeddingScore:  round2(embeddingScore),
			RuleWeight:      ruleWeight,
			EmbeddingWeight: embeddingWeight,
		},
		Notes:    []string{coverageNote(len(matched), len(requiredSkills))},
		Degraded: degraded,
	}
	if note != "" {
		explanation.Notes = append(explanation.Notes, note)
	}

	return model.MatchResult{
		StudentID:     student.ID,
		OpportunityID: opp.ID,
		Status:        model.StatusMatched,
		FinalScore:    finalScore,
		Explanation:   explanation,
	}
}

// embeddingScore encodes both skill sets and returns their cosine
// similarity scaled to [0, 100]. A failed encode degrades instead of
// erroring.
func (s *HybridScorer) embeddingScore(ctx context.Context, student, required model.Skills) (score float64, degraded bool, note string) {
	if s.encoder == nil {
		return 0, true, "embedding backend not configured"
	}

	studentVec, err := s.encoder.Encode(ctx, encoding.SkillsText(student))
	if err != nil {
		return 0, true, fmt.Sprintf("embedding unavailable: %v", err)
	}
	requiredVec, err := s.encoder.Encode(ctx, encoding.SkillsText(required))
	if err != nil {
		return 0, true, fmt.Sprintf("embedding unavailable: %v", err)
	}

	return encoding.Cosine(studentVec, requiredVec) * maxScore, false, ""
}
