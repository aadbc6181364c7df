// Command matchcore runs the matching pipeline against a JSON dataset:
// ranked recommendations for one student, or a side-by-side comparison
// of the rule-based and hybrid scoring paths.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/placewise/matchcore/internal/adapters/decisionlog"
	"github.com/placewise/matchcore/internal/adapters/encoder"
	service "github.com/placewise/matchcore/internal/app"
	"github.com/placewise/matchcore/internal/config"
	"github.com/placewise/matchcore/internal/domain/eligibility"
	"github.com/placewise/matchcore/internal/domain/feedback"
	"github.com/placewise/matchcore/internal/domain/rerank"
	"github.com/placewise/matchcore/internal/domain/scoring"
	"github.com/placewise/matchcore/pkg/logger"
	"github.com/placewise/matchcore/pkg/metrics"
)

func main() {
	dataDir := flag.String("data", "data", "directory holding students.json and internships.json")
	studentID := flag.String("student", "", "student id to recommend for")
	topN := flag.Int("top", 5, "number of recommendations to return")
	policy := flag.String("policy", "strict", "eligibility policy: strict or lenient")
	useFeedback := flag.Bool("feedback", false, "apply decayed feedback boosts")
	useRerank := flag.Bool("rerank", false, "re-rank the top candidates with the cross-encoder")
	compare := flag.Bool("compare", false, "print rule vs hybrid rankings instead of recommending")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	svc, err := buildService(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}

	students, err := loadStudents(*dataDir)
	if err != nil {
		log.Error(ctx, "failed to load students", logger.Error(err))
		os.Exit(1)
	}
	opportunities, err := loadOpportunities(*dataDir)
	if err != nil {
		log.Error(ctx, "failed to load opportunities", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "dataset loaded",
		logger.Int("students", len(students)),
		logger.Int("opportunities", len(opportunities)),
	)

	student, ok := students[*studentID]
	if !ok {
		log.Error(ctx, "student not found in dataset", logger.String("student", *studentID))
		os.Exit(1)
	}

	if *compare {
		ruleRanking, hybridRanking, err := svc.Compare(ctx, student, opportunities)
		if err != nil {
			log.Error(ctx, "comparison failed", logger.Error(err))
			os.Exit(1)
		}
		printJSON(map[string]any{
			"student_id":     student.ID,
			"rule_ranking":   ruleRanking,
			"hybrid_ranking": hybridRanking,
		})
		return
	}

	candidates, err := svc.Recommend(ctx, service.RecommendRequest{
		Student:       student,
		Opportunities: opportunities,
		TopN:          *topN,
		Policy:        eligibility.Policy(*policy),
		ApplyFeedback: *useFeedback,
		Rerank:        *useRerank,
	})
	if err != nil {
		log.Error(ctx, "recommendation failed", logger.Error(err))
		os.Exit(1)
	}

	printJSON(map[string]any{
		"student_id":      student.ID,
		"recommendations": candidates,
		"analytics":       svc.MetricsSnapshot(5),
	})
}

// buildService wires the pipeline from configuration: encoder backend,
// scorers, re-ranker, feedback store, decision log and metrics.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	backend, err := encoder.New(ctx, encoder.Config{
		Provider:   cfg.EncoderProvider,
		APIKey:     cfg.GeminiAPIKey,
		EmbedModel: cfg.EmbedModel,
		ScoreModel: cfg.ScoreModel,
		Dimension:  cfg.EmbedDimension,
		CacheSize:  cfg.EncoderCacheSize,
	})
	if err != nil {
		return nil, err
	}

	ruleScorer := scoring.NewRuleScorer(
		scoring.WithRuleWeights(cfg.SimilarityWeight, cfg.CoverageWeight, cfg.PreferenceBonus),
		scoring.WithPenalties(cfg.GapFactor, cfg.OverqualPenalty),
	)
	hybridScorer := scoring.NewHybridScorer(backend,
		scoring.WithHybridWeights(cfg.RuleWeight, cfg.EmbeddingWeight),
	)
	reranker := rerank.New(backend,
		rerank.WithMaxCandidates(cfg.RerankSize),
		rerank.WithCrossEncoderWeight(cfg.CrossEncoderWeight),
	)
	store := feedback.NewInMemoryStore(
		feedback.WithHalfLife(daysToDuration(cfg.FeedbackHalfLifeDays)),
		feedback.WithMaxBoost(cfg.FeedbackMaxBoost),
	)

	return service.New(
		service.WithLogger(log),
		service.WithRuleScorer(ruleScorer),
		service.WithHybridScorer(hybridScorer),
		service.WithReRanker(reranker),
		service.WithFeedbackStore(store),
		service.WithDecisionLog(decisionlog.New(decisionlog.WithPath(cfg.DecisionLogPath))),
		service.WithMetrics(metrics.NewManager()),
		service.WithScoringConcurrency(cfg.ScoringConcurrency),
	), nil
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
