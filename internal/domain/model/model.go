// Package model contains domain models passed between layers.
package model

import "time"

// Status is the terminal outcome of a single match decision.
type Status string

const (
	StatusMatched  Status = "MATCHED"
	StatusRejected Status = "REJECTED"
)

// Skills maps a canonical skill name to a proficiency level.
// Levels are small positive integers; see Validate for bounds.
type Skills map[string]int

// Student represents a candidate profile used for matching.
// Immutable for the duration of a matching request; supplied fully
// populated by the caller, never persisted here.
type Student struct {
	ID          string            `json:"id"`
	Skills      Skills            `json:"skills"`
	Year        int               `json:"year"`     // ordinal academic progress
	Location    string            `json:"location"` // free text, compared case-insensitively
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Opportunity represents an internship a student can be matched to.
type Opportunity struct {
	ID             string `json:"id"`
	RequiredSkills Skills `json:"required_skills"` // skill -> minimum level
	MinYear        int    `json:"min_year"`
	Location       string `json:"location"`
	IsRemote       bool   `json:"is_remote"` // bypasses location matching
}

// Breakdown carries the component sub-scores behind a final score.
// Only the fields relevant to the scoring path that produced the
// result are populated.
type Breakdown struct {
	SimilarityScore   float64 `json:"similarity_score,omitempty"`
	CoverageScore     float64 `json:"coverage_score,omitempty"`
	PreferenceScore   float64 `json:"preference_score,omitempty"`
	GapPenalty        float64 `json:"gap_penalty,omitempty"`
	OverqualPenalty   float64 `json:"overqualification_penalty,omitempty"`
	RuleScore         float64 `json:"rule_based_score,omitempty"`
	EmbeddingScore    float64 `json:"embedding_score,omitempty"`
	CrossEncoderScore float64 `json:"cross_encoder_score,omitempty"`
	RuleWeight        float64 `json:"rule_weight,omitempty"`
	EmbeddingWeight   float64 `json:"embedding_weight,omitempty"`
}

// Explanation is the structured, caller-facing account of a decision.
type Explanation struct {
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills,omitempty"`
	Similarity    float64   `json:"similarity,omitempty"`
	Breakdown     Breakdown `json:"breakdown"`
	Notes         []string  `json:"notes,omitempty"`
	Degraded      bool      `json:"degraded,omitempty"` // a model backend was unavailable
}

// MatchResult is the outcome of scoring one (student, opportunity) pair.
//
// Invariants: a REJECTED result has FinalScore == 0 and at least one
// reason; a MATCHED result has 0 <= FinalScore <= 100.
type MatchResult struct {
	StudentID     string      `json:"student_id"`
	OpportunityID string      `json:"opportunity_id"`
	Status        Status      `json:"status"`
	FinalScore    float64     `json:"final_score"`
	Reasons       []string    `json:"reasons,omitempty"`
	Explanation   Explanation `json:"explanation"`
}

// Candidate is one opportunity inside a ranked recommendation.
type Candidate struct {
	OpportunityID     string      `json:"opportunity_id"`
	FinalScore        float64     `json:"final_score"`
	BaseScore         float64     `json:"base_score"`
	FeedbackBoost     float64     `json:"feedback_boost"`
	CrossEncoderScore float64     `json:"cross_encoder_score,omitempty"`
	Explanation       Explanation `json:"explanation"`

	// order preserves the candidate's position in the caller's input,
	// used as the deterministic tie break when scores are equal.
	order int
}

// InputOrder reports the candidate's position in the original input set.
func (c Candidate) InputOrder() int { return c.order }

// SetInputOrder records the candidate's position in the original input set.
func (c *Candidate) SetInputOrder(i int) { c.order = i }

// Action is a recorded student interaction with an opportunity.
type Action string

const (
	ActionView   Action = "view"
	ActionClick  Action = "click"
	ActionApply  Action = "apply"
	ActionIgnore Action = "ignore"
)

// FeedbackEvent is one append-only interaction record. Events are
// never mutated or deleted; decay is computed at read time.
type FeedbackEvent struct {
	StudentID     string    `json:"student_id"`
	OpportunityID string    `json:"opportunity_id"`
	Action        Action    `json:"action"`
	Weight        float64   `json:"weight"`
	TS            time.Time `json:"timestamp"`
}
