// Package decisionlog appends one structured record per terminal match
// decision to a JSONL audit file. Writes are best effort: a failure is
// reported to the caller for counting but must never abort the
// matching request that produced the decision.
package decisionlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/placewise/matchcore/internal/domain/model"
)

const defaultPath = "logs/match_decisions.jsonl"

// Record is one audit entry. Detail carries the path-specific payload:
// rejection reasons or the score breakdown.
type Record struct {
	ID            string       `json:"id"`
	Timestamp     time.Time    `json:"timestamp"`
	StudentID     string       `json:"student_id"`
	OpportunityID string       `json:"opportunity_id"`
	Status        model.Status `json:"status"`
	FinalScore    float64      `json:"final_score"`
	Detail        any          `json:"detail,omitempty"`
}

// Option applies a configuration option to the Logger.
type Option func(*Logger)

// WithPath sets the log file location.
func WithPath(path string) Option {
	return func(l *Logger) {
		if path != "" {
			l.path = path
		}
	}
}

// WithClock sets the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// Logger is an append-only JSONL writer. Appends are serialized so
// concurrent requests never interleave partial lines.
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New creates a decision logger with configuration options.
func New(opts ...Option) *Logger {
	l := &Logger{
		path: defaultPath,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append writes one decision record. The returned error is for
// accounting only; callers swallow it after counting.
func (l *Logger) Append(result model.MatchResult) error {
	record := Record{
		ID:            uuid.NewString(),
		Timestamp:     l.now().UTC(),
		StudentID:     result.StudentID,
		OpportunityID: result.OpportunityID,
		Status:        result.Status,
		FinalScore:    result.FinalScore,
	}
	if result.Status == model.StatusRejected {
		record.Detail = map[string]any{"reasons": result.Reasons}
	} else {
		record.Detail = result.Explanation
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}
