package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/placewise/matchcore/internal/domain/eligibility"
	"github.com/placewise/matchcore/internal/domain/model"
	"github.com/placewise/matchcore/internal/domain/skills"
)

// RuleOption applies a configuration option to the RuleScorer.
type RuleOption func(*RuleScorer)

// WithRuleTaxonomy sets a custom skill taxonomy.
func WithRuleTaxonomy(t *skills.Taxonomy) RuleOption {
	return func(s *RuleScorer) {
		if t != nil {
			s.taxonomy = t
		}
	}
}

// WithRuleWeights sets the similarity, coverage and preference weights.
// Non-positive values keep the defaults.
func WithRuleWeights(similarity, coverage, preference float64) RuleOption {
	return func(s *RuleScorer) {
		if similarity > 0 {
			s.similarityWeight = similarity
		}
		if coverage > 0 {
			s.coverageWeight = coverage
		}
		if preference > 0 {
			s.preferenceBonus = preference
		}
	}
}

// WithPenalties sets the gap penalty factor and the overqualification
// penalty per skill held more than the margin above requirement.
func WithPenalties(gapFactor, overqualPenalty float64) RuleOption {
	return func(s *RuleScorer) {
		if gapFactor > 0 {
			s.gapFactor = gapFactor
		}
		if overqualPenalty > 0 {
			s.overqualPenalty = overqualPenalty
		}
	}
}

// RuleScorer implements the strict scoring path: full eligibility
// gating, symbolic skill-vector similarity, coverage, a location or
// remote preference bonus, and gap/overqualification penalties.
type RuleScorer struct {
	taxonomy *skills.Taxonomy

	similarityWeight float64
	coverageWeight   float64
	preferenceBonus  float64
	gapFactor        float64
	overqualMargin   int
	overqualPenalty  float64
}

// NewRuleScorer creates a rule-based scorer with configuration options.
func NewRuleScorer(opts ...RuleOption) *RuleScorer {
	s := &RuleScorer{
		taxonomy:         skills.NewTaxonomy(),
		similarityWeight: defaultSimilarityWeight,
		coverageWeight:   defaultCoverageWeight,
		preferenceBonus:  defaultPreferenceBonus,
		gapFactor:        defaultGapFactor,
		overqualMargin:   defaultOverqualMargin,
		overqualPenalty:  defaultOverqualPenalty,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Match scores one pair. Skill sets are canonicalized before the
// eligibility gate so alias spellings count toward requirements.
func (s *RuleScorer) Match(ctx context.Context, student model.Student, opp model.Opportunity) model.MatchResult {
	studentSkills := s.taxonomy.NormalizeSkills(student.Skills)
	requiredSkills := s.taxonomy.NormalizeSkills(opp.RequiredSkills)

	normStudent := student
	normStudent.Skills = studentSkills
	normOpp := opp
	normOpp.RequiredSkills = requiredSkills

	eligible, reasons := eligibility.Check(eligibility.PolicyStrict, normStudent, normOpp)
	if !eligible {
		return rejected(student, opp, reasons)
	}

	// Symbolic similarity over the joint per-pair skill index.
	index := skills.BuildIndex(studentSkills, requiredSkills)
	similarity := skills.Cosine(
		index.Vectorize(studentSkills),
		index.Vectorize(requiredSkills),
	)
	similarityScore := similarity * s.similarityWeight

	matched, missing := splitSkills(studentSkills, requiredSkills)
	coverage := float64(len(matched)) / float64(len(requiredSkills))
	coverageScore := coverage * s.coverageWeight

	var gapPenalty, overqualPenalty float64
	for skill, required := range requiredSkills {
		level := studentSkills.Level(skill)
		switch {
		case level < required:
			gapPenalty += float64(required-level) * s.gapFactor
		case level > required+s.overqualMargin:
			overqualPenalty += s.overqualPenalty
		}
	}

	preferenceScore := 0.0
	if opp.IsRemote || strings.EqualFold(student.Location, opp.Location) {
		preferenceScore = s.preferenceBonus
	}

	finalScore := round2(similarityScore + coverageScore + preferenceScore - gapPenalty - overqualPenalty)
	finalScore = clampScore(finalScore)

	return model.MatchResult{
		StudentID:     student.ID,
		OpportunityID: opp.ID,
		Status:        model.StatusMatched,
		FinalScore:    finalScore,
		Explanation: model.Explanation{
			MatchedSkills: matched,
			MissingSkills: missing,
			Similarity:    similarity,
			Breakdown: model.Breakdown{
				SimilarityScore: round2(similarityScore),
				CoverageScore:   round2(coverageScore),
				PreferenceScore: preferenceScore,
				GapPenalty:      gapPenalty,
				OverqualPenalty: overqualPenalty,
			},
			Notes: []string{
				coverageNote(len(matched), len(requiredSkills)),
				fmt.Sprintf("skill similarity: %.2f", similarity),
				"eligibility criteria passed",
			},
		},
	}
}
