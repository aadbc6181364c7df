package encoder

import "errors"

// Sentinel kinds for model backend errors.
var (
	ErrEmptyText       = errors.New("text must not be empty")
	ErrMissingAPIKey   = errors.New("api key is required")
	ErrUnknownProvider = errors.New("unknown encoder provider")
	ErrBackendFailed   = errors.New("model backend failed")
	ErrEmptyResponse   = errors.New("model backend returned empty response")
)
