package spacing

import (
	"github.com/nvandessel/flipstudy/internal/models"
)

// estimateAlpha refines the rate of forgetting after a new response.
//
// With fewer than minFitEncounters encounters the fallback is returned. Otherwise
// the sign of the prediction error at the previous α picks a bracket of width
// fitStep above or below it, and fitIterations rounds of bisection keep the half
// whose shifted decays reproduce the recent reaction times with the lower squared
// error. The midpoint of the final bracket is returned, so the result always lies
// within fitStep of prev.
func (m *Model) estimateAlpha(encounters []encounter, activation float64, r models.Response, prev, fallback float64) float64 {
	if len(encounters) < minFitEncounters {
		return fallback
	}

	readingTime := ReadingTime(r.Fact.Question)
	predicted := m.PredictedReactionTime(activation, readingTime)

	lo, hi := prev-fitStep, prev
	if predicted-m.NormalizeReactionTime(r) < 0 {
		// Predicted too fast: activation was overestimated, decay is larger.
		lo, hi = prev, prev+fitStep
	}

	window := encounters[max(1, len(encounters)-fitWindow):]
	shifted := make([]encounter, len(encounters))

	for range fitIterations {
		errLo := m.windowError(window, shiftDecay(encounters, lo-prev, shifted), readingTime)
		errHi := m.windowError(window, shiftDecay(encounters, hi-prev, shifted), readingTime)

		mid := (lo + hi) / 2
		if errLo < errHi {
			hi = mid
		} else {
			lo = mid
		}
	}

	return (lo + hi) / 2
}

// shiftDecay writes encounters with every decay shifted by delta into dst.
func shiftDecay(encounters []encounter, delta float64, dst []encounter) []encounter {
	dst = dst[:len(encounters)]
	for i, e := range encounters {
		e.decay += delta
		dst[i] = e
	}
	return dst
}

// windowError sums the squared differences between each window encounter's
// observed reaction time and the one predicted from the decay-adjusted history
// just before it.
func (m *Model) windowError(window, adjusted []encounter, readingTime float64) float64 {
	total := 0.0
	for _, e := range window {
		act := activationAt(adjusted, e.time-probeOffset)
		diff := e.reactionTime - m.PredictedReactionTime(act, readingTime)
		total += diff * diff
	}
	return total
}
