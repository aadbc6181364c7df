package model

import (
	"fmt"
	"strings"
)

// Skill level bounds. Levels are small positive integers; anything
// outside this range is treated as malformed input, never coerced.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 10
)

// Validate checks every skill entry for an empty name or an out-of-range
// level. All entries are checked so the caller sees each problem once.
func (s Skills) Validate() error {
	for name, level := range s {
		if strings.TrimSpace(name) == "" {
			return ErrEmptySkill
		}
		if level < MinSkillLevel || level > MaxSkillLevel {
			return fmt.Errorf("%w: %q has level %d, want %d..%d",
				ErrSkillLevel, name, level, MinSkillLevel, MaxSkillLevel)
		}
	}
	return nil
}

// Level returns the proficiency for a skill, 0 when absent.
func (s Skills) Level(name string) int { return s[name] }

// Has reports whether the skill is present.
func (s Skills) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Validate rejects malformed student input at the boundary.
func (s Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("student: %w", ErrEmptyID)
	}
	if s.Year < 0 {
		return fmt.Errorf("student %s: %w", s.ID, ErrNegativeYear)
	}
	if err := s.Skills.Validate(); err != nil {
		return fmt.Errorf("student %s: %w", s.ID, err)
	}
	return nil
}

// Validate rejects malformed opportunity input at the boundary.
func (o Opportunity) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("opportunity: %w", ErrEmptyID)
	}
	if o.MinYear < 0 {
		return fmt.Errorf("opportunity %s: %w", o.ID, ErrNegativeYear)
	}
	if len(o.RequiredSkills) == 0 {
		return fmt.Errorf("opportunity %s: %w", o.ID, ErrNoRequirement)
	}
	if err := o.RequiredSkills.Validate(); err != nil {
		return fmt.Errorf("opportunity %s: %w", o.ID, err)
	}
	return nil
}
