// Package skills canonicalizes free-text skill names and converts
// skill sets into numeric vectors over a shared per-pair index.
package skills

import (
	"strings"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Taxonomy folds spelling variants of a skill onto one canonical name.
// The alias table is static; a database-backed taxonomy can replace it
// behind the same methods.
type Taxonomy struct {
	aliases map[string]string
}

// Option applies a configuration option to the Taxonomy.
type Option func(*Taxonomy)

// WithAliases merges extra alias -> canonical entries into the table.
func WithAliases(aliases map[string]string) Option {
	return func(t *Taxonomy) {
		for alias, canonical := range aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			canonical = strings.ToLower(strings.TrimSpace(canonical))
			if alias != "" && canonical != "" {
				t.aliases[alias] = canonical
			}
		}
	}
}

// NewTaxonomy creates a Taxonomy seeded with the default alias table.
func NewTaxonomy(opts ...Option) *Taxonomy {
	t := &Taxonomy{
		aliases: map[string]string{
			"py":       "python",
			"python3":  "python",
			"js":       "javascript",
			"node":     "javascript",
			"reactjs":  "react",
			"sql":      "sql",
			"mysql":    "sql",
			"postgres": "sql",
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Normalize lower-cases and trims a skill name, then folds known
// aliases. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func (t *Taxonomy) Normalize(name string) string {
	skill := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := t.aliases[skill]; ok {
		return canonical
	}
	return skill
}

// NormalizeSkills canonicalizes every key of a skill set. When several
// input spellings collapse onto the same canonical name, the merged
// level is the maximum of the contributors, so duplicate listings of
// one skill cannot inflate a score by double counting.
func (t *Taxonomy) NormalizeSkills(in model.Skills) model.Skills {
	out := make(model.Skills, len(in))
	for name, level := range in {
		canonical := t.Normalize(name)
		if level > out[canonical] {
			out[canonical] = level
		}
	}
	return out
}
