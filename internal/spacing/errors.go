package spacing

import "errors"

// Sentinel errors for the spacing package.
// Use errors.Is to check: errors.Is(err, spacing.ErrUnknownFact)
var (
	ErrUnknownFact       = errors.New("spacing: unknown fact")
	ErrDuplicateFact     = errors.New("spacing: duplicate fact ID")
	ErrDuplicateResponse = errors.New("spacing: duplicate response start time")
	ErrNoFacts           = errors.New("spacing: no facts to schedule")
	ErrInvalidConfig     = errors.New("spacing: invalid configuration")
)
