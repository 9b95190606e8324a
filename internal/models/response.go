package models

import "time"

// Response records one learner answer.
//
// Fact is the fact exactly as presented, so its orientation at that moment is
// preserved even if the live fact is flipped later.
type Response struct {
	Fact Fact `json:"fact" yaml:"fact"`

	// StartTime is the presentation time as an offset from session start.
	StartTime time.Duration `json:"start_time" yaml:"start_time"`

	// ReactionTime is the time between presentation and the submitted answer.
	ReactionTime time.Duration `json:"reaction_time" yaml:"reaction_time"`

	Correct bool `json:"correct" yaml:"correct"`
}

// Orientation reports the orientation the response was recorded under.
func (r Response) Orientation() Orientation {
	return r.Fact.Orientation()
}

// Millis converts a session offset to whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}
