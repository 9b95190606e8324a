package spacing

import (
	"math"

	"github.com/nvandessel/flipstudy/internal/models"
	"github.com/nvandessel/flipstudy/internal/tokens"
)

const (
	// minReadingTime is the reading time of single words and short phrases, ms.
	minReadingTime = 300.0

	// Multi-word reading time: readingIntercept + readingPerChar·chars, ms.
	readingIntercept = -157.9
	readingPerChar   = 19.5

	// incorrectReactionTime stands in for the reaction time of a wrong answer, ms.
	incorrectReactionTime = 60000.0

	// maxReactionTimeFactor scales the reaction time predicted at the forget
	// threshold into the cap applied to observed reaction times.
	maxReactionTimeFactor = 1.5
)

// ReadingTime estimates how long reading text takes, in milliseconds, independent
// of memory. Single words take minReadingTime; longer prompts grow linearly with
// their character count.
func ReadingTime(text string) float64 {
	if tokens.CountWords(text) > 1 {
		return math.Max(readingIntercept+float64(tokens.CountChars(text))*readingPerChar, minReadingTime)
	}
	return minReadingTime
}

// PredictedReactionTime returns the reaction time in milliseconds expected at
// the given activation: F·e^(-m) seconds of retrieval plus the reading time.
// Weaker memories predict slower answers; as m grows the prediction approaches
// the reading time.
func (m *Model) PredictedReactionTime(activation, readingTime float64) float64 {
	return (m.cfg.LatencyFactor*math.Exp(-activation) + readingTime/1000) * 1000
}

// MaxReactionTime is the cap applied to observed reaction times for a fact, ms.
func (m *Model) MaxReactionTime(f models.Fact) float64 {
	return maxReactionTimeFactor * m.PredictedReactionTime(m.cfg.ForgetThreshold, ReadingTime(f.Question))
}

// NormalizeReactionTime turns an observed response into the reaction time used
// as ground truth by the fit, in milliseconds. Incorrect answers count as
// incorrectReactionTime and everything is capped at MaxReactionTime.
func (m *Model) NormalizeReactionTime(r models.Response) float64 {
	rt := incorrectReactionTime
	if r.Correct {
		rt = float64(r.ReactionTime.Milliseconds())
	}
	return math.Min(rt, m.MaxReactionTime(r.Fact))
}
