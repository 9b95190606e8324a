package models

import "time"

// TestResult records one answer from the post-session test.
type TestResult struct {
	Fact         Fact          `json:"fact" yaml:"fact"`
	Typed        string        `json:"typed" yaml:"typed"`
	Correct      bool          `json:"correct" yaml:"correct"`
	ReactionTime time.Duration `json:"reaction_time" yaml:"reaction_time"`
}
