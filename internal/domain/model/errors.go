package model

import "errors"

// Sentinel kinds for input validation errors. These surface malformed
// caller input before any eligibility checking happens.
var (
	ErrEmptyID       = errors.New("id must not be empty")
	ErrNegativeYear  = errors.New("year must not be negative")
	ErrEmptySkill    = errors.New("skill name must not be empty")
	ErrSkillLevel    = errors.New("skill level out of range")
	ErrNoRequirement = errors.New("opportunity requires at least one skill")
)
