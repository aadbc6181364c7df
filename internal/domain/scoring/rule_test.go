package scoring_test

import (
	"context"
	"testing"

	"github.com/placewise/matchcore/internal/domain/model"
	"github.com/placewise/matchcore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRuleScorerMatch(t *testing.T) {
	Convey("Given the rule-based scorer", t, func() {
		ctx := context.Background()
		scorer := scoring.NewRuleScorer()

		Convey("When the student exactly meets every requirement", func() {
			student := model.Student{
				ID:       "s-1",
				Skills:   model.Skills{"python": 2, "sql": 1},
				Year:     3,
				Location: "Delhi",
			}
			opp := model.Opportunity{
				ID:             "i-1",
				RequiredSkills: model.Skills{"python": 2, "sql": 1},
				MinYear:        2,
				Location:       "Delhi",
			}
			result := scorer.Match(ctx, student, opp)

			Convey("Then the score is the full 100", func() {
				So(result.Status, ShouldEqual, model.StatusMatched)
				So(result.FinalScore, ShouldEqual, 100)
				So(result.Explanation.Similarity, ShouldEqual, 1)
				So(result.Explanation.Breakdown.SimilarityScore, ShouldEqual, 60)
				So(result.Explanation.Breakdown.CoverageScore, ShouldEqual, 20)
				So(result.Explanation.Breakdown.PreferenceScore, ShouldEqual, 20)
				So(result.Explanation.Breakdown.GapPenalty, ShouldEqual, 0)
				So(result.Explanation.MatchedSkills, ShouldResemble, []string{"python", "sql"})
				So(result.Explanation.MissingSkills, ShouldBeEmpty)
				So(result.Explanation.Notes, ShouldContain, "matched 2 of 2 required skills")
				So(result.Explanation.Notes, ShouldContain, "eligibility criteria passed")
			})
		})

		Convey("When the student holds extra skills beyond the requirements", func() {
			student := model.Student{
				ID:       "s-1",
				Skills:   model.Skills{"python": 3, "sql": 2, "react": 1},
				Year:     3,
				Location: "Delhi",
			}
			opp := model.Opportunity{
				ID:             "i-2",
				RequiredSkills: model.Skills{"python": 3, "sql": 2},
				MinYear:        2,
				Location:       "Delhi",
			}
			result := scorer.Match(ctx, student, opp)

			Convey("Then the extra skill dilutes similarity but not coverage", func() {
				So(result.Status, ShouldEqual, model.StatusMatched)
				So(result.Explanation.Similarity, ShouldEqual, 0.9637)
				So(result.FinalScore, ShouldEqual, 97.82)
				So(result.Explanation.Breakdown.CoverageScore, ShouldEqual, 20)
			})
		})

		Convey("When the student is far above one requirement", func() {
			student := model.Student{
				ID:       "s-2",
				Skills:   model.Skills{"python": 5},
				Year:     3,
				Location: "Delhi",
			}
			opp := model.Opportunity{
				ID:             "i-3",
				RequiredSkills: model.Skills{"python": 2},
				MinYear:        1,
				Location:       "Delhi",
			}
			result := scorer.Match(ctx, student, opp)

			Convey("Then the overqualification penalty is applied", func() {
				So(result.Status, ShouldEqual, model.StatusMatched)
				So(result.Explanation.Breakdown.OverqualPenalty, ShouldEqual, 1)
				So(result.FinalScore, ShouldEqual, 99)
			})
		})

		Convey("When the student's skills use alias spellings", func() {
			student := model.Student{
				ID:       "s-3",
				Skills:   model.Skills{"py": 2, "python3": 4},
				Year:     3,
				Location: "Delhi",
			}
			opp := model.Opportunity{
				ID:             "i-4",
				RequiredSkills: model.Skills{"python": 3},
				MinYear:        1,
				Location:       "Delhi",
			}
			result := scorer.Match(ctx, student, opp)

			Convey("Then aliases are folded before the gate and count toward requirements", func() {
				So(result.Status, ShouldEqual, model.StatusMatched)
				So(result.Explanation.MatchedSkills, ShouldResemble, []string{"python"})
				So(result.FinalScore, ShouldEqual, 100)
			})
		})

		Convey("When a required skill level is not met", func() {
			student := model.Student{
				ID:       "s-4",
				Skills:   model.Skills{"python": 1},
				Year:     3,
				Location: "Delhi",
			}
			opp := model.Opportunity{
				ID:             "i-5",
				RequiredSkills: model.Skills{"python": 3},
				MinYear:        1,
				Location:       "Delhi",
			}
			result := scorer.Match(ctx, student, opp)

			Convey("Then the pair is rejected with a zero score and a reason", func() {
				So(result.Status, ShouldEqual, model.StatusRejected)
				So(result.FinalScore, ShouldEqual, 0)
				So(result.Reasons, ShouldContain, "skill level too low for python (required 3, has 1)")
			})
		})

		Convey("When locations differ for an on-site role", func() {
			student := model.Student{
				ID:       "s-5",
				Skills:   model.Skills{"sql": 2},
				Year:     2,
				Location: "Mumbai",
			}
			opp := model.Opportunity{
				ID:             "i-6",
				RequiredSkills: model.Skills{"sql": 1},
				MinYear:        1,
				Location:       "Delhi",
			}
			result := scorer.Match(ctx, student, opp)

			So(result.Status, ShouldEqual, model.StatusRejected)
			So(result.Reasons, ShouldContain, "location mismatch: student in Mumbai, opportunity in Delhi")
		})

		Convey("When the role is remote for a student elsewhere", func() {
			student := model.Student{
				ID:       "s-5",
				Skills:   model.Skills{"sql": 2},
				Year:     2,
				Location: "Mumbai",
			}
			opp := model.Opportunity{
				ID:             "i-7",
				RequiredSkills: model.Skills{"sql": 1},
				MinYear:        1,
				Location:       "Delhi",
				IsRemote:       true,
			}
			result := scorer.Match(ctx, student, opp)

			Convey("Then the preference bonus still applies", func() {
				So(result.Status, ShouldEqual, model.StatusMatched)
				So(result.Explanation.Breakdown.PreferenceScore, ShouldEqual, 20)
			})
		})
	})

	Convey("Given custom weights", t, func() {
		ctx := context.Background()
		scorer := scoring.NewRuleScorer(scoring.WithRuleWeights(50, 30, 20))

		student := model.Student{
			ID:       "s-1",
			Skills:   model.Skills{"python": 2},
			Year:     3,
			Location: "Delhi",
		}
		opp := model.Opportunity{
			ID:             "i-1",
			RequiredSkills: model.Skills{"python": 2},
			MinYear:        1,
			Location:       "Delhi",
		}

		Convey("Then the components scale accordingly", func() {
			result := scorer.Match(ctx, student, opp)
			So(result.Explanation.Breakdown.SimilarityScore, ShouldEqual, 50)
			So(result.Explanation.Breakdown.CoverageScore, ShouldEqual, 30)
			So(result.FinalScore, ShouldEqual, 100)
		})
	})
}
