// Package eligibility implements the hard gate applied before any
// scoring is attempted.
package eligibility

import (
	"fmt"
	"sort"
	"strings"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Policy selects which constraints the gate enforces. The two scoring
// paths historically diverged on skill gating, so the choice is an
// explicit parameter instead of two hard-coded variants.
type Policy string

const (
	// PolicyStrict gates on year, per-skill minimum levels, and
	// location. Used by the rule-based scoring path.
	PolicyStrict Policy = "strict"

	// PolicyLenient gates on year and location only; skill shortfall
	// is absorbed into the score. Used by the hybrid scoring path.
	PolicyLenient Policy = "lenient"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == PolicyStrict || p == PolicyLenient
}

// Check evaluates every constraint of the policy and returns all
// failing reasons. Constraints are not short-circuited, so a rejected
// pair surfaces each problem at once. An eligible pair returns
// (true, nil).
func Check(policy Policy, student model.Student, opp model.Opportunity) (bool, []string) {
	var reasons []string

	if student.Year < opp.MinYear {
		reasons = append(reasons, fmt.Sprintf(
			"student year %d is below required minimum year %d",
			student.Year, opp.MinYear))
	}

	if policy == PolicyStrict {
		names := make([]string, 0, len(opp.RequiredSkills))
		for skill := range opp.RequiredSkills {
			names = append(names, skill)
		}
		sort.Strings(names)
		for _, skill := range names {
			required := opp.RequiredSkills[skill]
			have := student.Skills.Level(skill)
			switch {
			case have == 0:
				reasons = append(reasons, fmt.Sprintf("missing required skill: %s", skill))
			case have < required:
				reasons = append(reasons, fmt.Sprintf(
					"skill level too low for %s (required %d, has %d)",
					skill, required, have))
			}
		}
	}

	if !opp.IsRemote && !strings.EqualFold(student.Location, opp.Location) {
		reasons = append(reasons, fmt.Sprintf(
			"location mismatch: student in %s, opportunity in %s",
			student.Location, opp.Location))
	}

	return len(reasons) == 0, reasons
}
