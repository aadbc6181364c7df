package rerank

import "errors"

// Sentinel kinds for re-ranking errors.
var (
	ErrTooManyCandidates  = errors.New("candidate set exceeds re-rank cap")
	ErrNoPairScorer       = errors.New("no pair scorer configured")
	ErrUnknownOpportunity = errors.New("candidate references unknown opportunity")
)
