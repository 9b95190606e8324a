// Package models defines the value types shared by the spacing engine and its
// collaborators: vocabulary facts and the learner responses recorded against them.
package models

// Orientation identifies which side of a fact is shown as the prompt.
type Orientation string

const (
	// OrientationForward presents the fact as ingested.
	OrientationForward Orientation = "forward"
	// OrientationReversed presents the answer as the prompt.
	OrientationReversed Orientation = "reversed"
)

// Fact is a single vocabulary item.
//
// ID is stable across orientation flips. Question and Answer always hold the
// text as currently presented, so a flipped fact carries the swapped pair.
type Fact struct {
	ID       string `json:"fact_id" yaml:"fact_id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Flipped  bool   `json:"flipped" yaml:"flipped"`
}

// NewFact creates a fact in forward orientation.
func NewFact(id, question, answer string) Fact {
	return Fact{ID: id, Question: question, Answer: answer}
}

// Orientation reports the fact's current orientation.
func (f Fact) Orientation() Orientation {
	if f.Flipped {
		return OrientationReversed
	}
	return OrientationForward
}

// Flip returns the fact with question and answer swapped and the orientation toggled.
// Flip(Flip(f)) == f.
func (f Fact) Flip() Fact {
	return Fact{
		ID:       f.ID,
		Question: f.Answer,
		Answer:   f.Question,
		Flipped:  !f.Flipped,
	}
}

// Forward returns the fact in forward orientation regardless of its current state.
func (f Fact) Forward() Fact {
	if f.Flipped {
		return f.Flip()
	}
	return f
}
