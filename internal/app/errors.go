package service

import "errors"

// Sentinel kinds for service-level errors.
var (
	ErrInvalidPolicy = errors.New("invalid eligibility policy")
	ErrInvalidInput  = errors.New("invalid input")
)
