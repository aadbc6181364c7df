// Package metrics provides match-decision analytics: Prometheus
// counters for operations, plus in-memory frequency counters exposed
// as top-N snapshots for product analytics. Counters are
// process-lifetime state with no persistence guarantee.
package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric of the matching pipeline. Construct one at
// process start and inject it wherever decisions are observed.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	decisions           *prometheus.CounterVec
	rejectionReasons    *prometheus.CounterVec
	matchedSkills       *prometheus.CounterVec
	feedbackEvents      *prometheus.CounterVec
	scoringLatency      prometheus.Histogram
	encoderDegradations prometheus.Counter
	rerankFallbacks     prometheus.Counter
	logFailures         prometheus.Counter

	// In-memory frequency counters behind the top-N snapshots. These
	// keep the exact reason strings; the Prometheus label space only
	// carries the bounded reason class.
	mu         sync.Mutex
	reasonFreq map[string]int
	skillFreq  map[string]int
}

// Sample is one entry of a top-N snapshot.
type Sample struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchcore",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
		reasonFreq:       make(map[string]int),
		skillFreq:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.decisions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decisions_total",
		Help:      "Total terminal match decisions by status",
	}, []string{"status"})

	m.rejectionReasons = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rejections_total",
		Help:      "Total rejections by reason class",
	}, []string{"reason"})

	m.matchedSkills = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matched_skills_total",
		Help:      "Total matched-skill observations by skill name",
	}, []string{"skill"})

	m.feedbackEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_events_total",
		Help:      "Total recorded feedback events by action",
	}, []string{"action"})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_seconds",
		Help:      "Histogram of per-pair scoring latency",
		Buckets:   m.histogramBuckets,
	})

	m.encoderDegradations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "encoder_degradations_total",
		Help:      "Total scoring calls that degraded to rule-only mode",
	})

	m.rerankFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rerank_fallbacks_total",
		Help:      "Total recommendations that fell back to the pre-rerank order",
	})

	m.logFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decision_log_failures_total",
		Help:      "Total decision log writes that failed (non-fatal)",
	})
}

// RecordMatch counts one MATCHED decision and its matched skills.
func (m *Manager) RecordMatch(matchedSkills []string) {
	if !m.enabled {
		return
	}
	m.decisions.WithLabelValues("matched").Inc()

	m.mu.Lock()
	for _, skill := range matchedSkills {
		m.skillFreq[skill]++
	}
	m.mu.Unlock()

	for _, skill := range matchedSkills {
		m.matchedSkills.WithLabelValues(skill).Inc()
	}
}

// RecordRejection counts one REJECTED decision with every reason it
// carried.
func (m *Manager) RecordRejection(reasons []string) {
	if !m.enabled {
		return
	}
	m.decisions.WithLabelValues("rejected").Inc()

	m.mu.Lock()
	for _, reason := range reasons {
		m.reasonFreq[reason]++
	}
	m.mu.Unlock()

	for _, reason := range reasons {
		m.rejectionReasons.WithLabelValues(reasonClass(reason)).Inc()
	}
}

// RecordFeedback counts one recorded feedback event.
func (m *Manager) RecordFeedback(action string) {
	if m.enabled {
		m.feedbackEvents.WithLabelValues(action).Inc()
	}
}

// ObserveScoringLatency records one per-pair scoring duration.
func (m *Manager) ObserveScoringLatency(seconds float64) {
	if m.enabled {
		m.scoringLatency.Observe(seconds)
	}
}

// RecordEncoderDegradation counts one degraded scoring call.
func (m *Manager) RecordEncoderDegradation() {
	if m.enabled {
		m.encoderDegradations.Inc()
	}
}

// RecordRerankFallback counts one pre-rerank-order fallback.
func (m *Manager) RecordRerankFallback() {
	if m.enabled {
		m.rerankFallbacks.Inc()
	}
}

// RecordLogFailure counts one swallowed decision log write failure.
func (m *Manager) RecordLogFailure() {
	if m.enabled {
		m.logFailures.Inc()
	}
}

// TopRejections returns the n most frequent exact rejection reasons.
func (m *Manager) TopRejections(n int) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return topN(m.reasonFreq, n)
}

// TopSkills returns the n most frequently matched skill names.
func (m *Manager) TopSkills(n int) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return topN(m.skillFreq, n)
}

// topN sorts by count descending, key ascending on ties, truncated to n.
func topN(freq map[string]int, n int) []Sample {
	samples := make([]Sample, 0, len(freq))
	for key, count := range freq {
		samples = append(samples, Sample{Key: key, Count: count})
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Count != samples[j].Count {
			return samples[i].Count > samples[j].Count
		}
		return samples[i].Key < samples[j].Key
	})
	if n > 0 && len(samples) > n {
		samples = samples[:n]
	}
	return samples
}

// reasonClass folds a free-text rejection reason onto a bounded label
// value so the Prometheus label space stays small.
func reasonClass(reason string) string {
	switch {
	case strings.HasPrefix(reason, "student year"):
		return "year_below_minimum"
	case strings.HasPrefix(reason, "missing required skill"):
		return "missing_skill"
	case strings.HasPrefix(reason, "skill level too low"):
		return "skill_level_too_low"
	case strings.HasPrefix(reason, "location mismatch"):
		return "location_mismatch"
	default:
		return "other"
	}
}
