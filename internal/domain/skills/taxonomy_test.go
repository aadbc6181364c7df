package skills_test

import (
	"testing"

	"github.com/placewise/matchcore/internal/domain/model"
	"github.com/placewise/matchcore/internal/domain/skills"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTaxonomyNormalize(t *testing.T) {
	Convey("Given the default taxonomy", t, func() {
		taxonomy := skills.NewTaxonomy()

		Convey("When normalizing alias spellings", func() {
			Convey("Then they fold onto the canonical name", func() {
				So(taxonomy.Normalize("py"), ShouldEqual, "python")
				So(taxonomy.Normalize("python3"), ShouldEqual, "python")
				So(taxonomy.Normalize("js"), ShouldEqual, "javascript")
				So(taxonomy.Normalize("node"), ShouldEqual, "javascript")
				So(taxonomy.Normalize("postgres"), ShouldEqual, "sql")
			})
		})

		Convey("When normalizing mixed case and whitespace", func() {
			Convey("Then input is lower-cased and trimmed first", func() {
				So(taxonomy.Normalize("  Py "), ShouldEqual, "python")
				So(taxonomy.Normalize("ReactJS"), ShouldEqual, "react")
				So(taxonomy.Normalize("Go"), ShouldEqual, "go")
			})
		})

		Convey("When normalizing an already canonical name", func() {
			Convey("Then normalization is idempotent", func() {
				for _, name := range []string{"py", "Python3", "js", "golang", "  SQL "} {
					once := taxonomy.Normalize(name)
					So(taxonomy.Normalize(once), ShouldEqual, once)
				}
			})
		})
	})
}

func TestTaxonomyNormalizeSkills(t *testing.T) {
	Convey("Given a skill set with duplicate aliases", t, func() {
		taxonomy := skills.NewTaxonomy()
		in := model.Skills{"py": 2, "python3": 4}

		Convey("When normalizing the set", func() {
			out := taxonomy.NormalizeSkills(in)

			Convey("Then the merged level is the maximum, never a sum", func() {
				So(out, ShouldHaveLength, 1)
				So(out["python"], ShouldEqual, 4)
			})
		})
	})

	Convey("Given extra aliases supplied via options", t, func() {
		taxonomy := skills.NewTaxonomy(skills.WithAliases(map[string]string{
			"golang": "go",
		}))

		Convey("Then both default and custom aliases apply", func() {
			out := taxonomy.NormalizeSkills(model.Skills{"Golang": 3, "py": 1})
			So(out["go"], ShouldEqual, 3)
			So(out["python"], ShouldEqual, 1)
		})
	})
}
