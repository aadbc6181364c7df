// Package feedback records student interaction events and computes a
// time-decayed aggregate boost per (student, opportunity) pair.
//
// Events are append-only; decay is applied at read time, never by
// mutating stored events. The store is the one piece of shared mutable
// state in the pipeline and is safe for concurrent use.
package feedback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Tuning defaults: a signal loses half its power every half-life, and
// the summed boost is capped to keep repeated applies from inflating a
// ranking. There is no lower clamp; ignore events may push the boost
// negative.
const (
	DefaultHalfLife = 7 * 24 * time.Hour
	DefaultMaxBoost = 12.0
)

// DefaultActionWeights maps each known action to its raw signal value.
var DefaultActionWeights = map[model.Action]float64{
	model.ActionView:   1,
	model.ActionClick:  2,
	model.ActionApply:  5,
	model.ActionIgnore: -1,
}

// Store records interaction events and serves decayed boosts.
type Store interface {
	// Record appends one event. Unknown actions are a silent no-op.
	Record(ctx context.Context, studentID, opportunityID string, action model.Action)

	// Boost returns the decayed, clamped aggregate for a pair.
	Boost(ctx context.Context, studentID, opportunityID string) float64

	// Events returns a copy of the stored events for a pair.
	Events(ctx context.Context, studentID, opportunityID string) []model.FeedbackEvent
}

type pairKey struct {
	studentID     string
	opportunityID string
}

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithHalfLife sets the decay half-life.
func WithHalfLife(d time.Duration) Option {
	return func(s *InMemoryStore) {
		if d > 0 {
			s.halfLife = d
		}
	}
}

// WithMaxBoost sets the positive ceiling on the summed boost.
func WithMaxBoost(max float64) Option {
	return func(s *InMemoryStore) {
		if max > 0 {
			s.maxBoost = max
		}
	}
}

// WithActionWeights replaces the action weight table.
func WithActionWeights(weights map[model.Action]float64) Option {
	return func(s *InMemoryStore) {
		if len(weights) > 0 {
			s.weights = weights
		}
	}
}

// WithClock sets the time source, used by tests to age events.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// InMemoryStore implements Store with a mutex-guarded map of
// append-only event lists.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[pairKey][]model.FeedbackEvent

	weights  map[model.Action]float64
	halfLife time.Duration
	maxBoost float64
	now      func() time.Time
}

// NewInMemoryStore creates a feedback store with configuration options.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		events:   make(map[pairKey][]model.FeedbackEvent),
		weights:  DefaultActionWeights,
		halfLife: DefaultHalfLife,
		maxBoost: DefaultMaxBoost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one weighted, timestamped event. Unknown actions are
// ignored without error.
func (s *InMemoryStore) Record(ctx context.Context, studentID, opportunityID string, action model.Action) {
	weight, ok := s.weights[action]
	if !ok {
		return
	}

	event := model.FeedbackEvent{
		StudentID:     studentID,
		OpportunityID: opportunityID,
		Action:        action,
		Weight:        weight,
		TS:            s.now().UTC(),
	}

	key := pairKey{studentID, opportunityID}
	s.mu.Lock()
	s.events[key] = append(s.events[key], event)
	s.mu.Unlock()
}

// Boost applies exponential decay to every stored event for the pair,
// sums the decayed weights, clamps to the ceiling and rounds to two
// decimals. Pure read-time computation over a snapshot of the events.
func (s *InMemoryStore) Boost(ctx context.Context, studentID, opportunityID string) float64 {
	events := s.Events(ctx, studentID, opportunityID)
	if len(events) == 0 {
		return 0
	}

	now := s.now().UTC()
	halfLifeDays := s.halfLife.Hours() / 24

	var total float64
	for _, e := range events {
		ageDays := now.Sub(e.TS).Hours() / 24
		total += e.Weight * math.Exp(-ageDays/halfLifeDays)
	}

	total = math.Min(total, s.maxBoost)
	return math.Round(total*100) / 100
}

// Events returns a copy so readers never observe later appends.
func (s *InMemoryStore) Events(ctx context.Context, studentID, opportunityID string) []model.FeedbackEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.events[pairKey{studentID, opportunityID}]
	if len(stored) == 0 {
		return nil
	}
	out := make([]model.FeedbackEvent, len(stored))
	copy(out, stored)
	return out
}

// Size returns the total number of stored events across all pairs.
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	for _, events := range s.events {
		n += len(events)
	}
	return n
}
