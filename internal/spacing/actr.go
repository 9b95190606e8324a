package spacing

import (
	"math"
	"time"

	"github.com/nvandessel/flipstudy/internal/models"
)

// encounter is one past presentation of a fact, rebuilt on every replay.
type encounter struct {
	activation   float64       // activation just before the presentation
	time         time.Duration // presentation time
	reactionTime float64       // normalized observed reaction time, ms
	decay        float64       // d_i
}

// activationAt computes the ACT-R base-level activation at time t from the
// encounters strictly before t.
//
// Formula: m(t) = ln Σ ((t - t_i) / 1s)^(-d_i)
//
// Returns -Inf when no encounter precedes t.
func activationAt(encounters []encounter, t time.Duration) float64 {
	sum := 0.0
	included := 0
	for _, e := range encounters {
		if e.time >= t {
			continue
		}
		sum += math.Pow(elapsedSeconds(e.time, t), -e.decay)
		included++
	}
	if included == 0 {
		return math.Inf(-1)
	}
	return math.Log(sum)
}

// elapsedSeconds returns t - since in seconds, floored at minElapsed to keep
// the power and log in their domains.
func elapsedSeconds(since, t time.Duration) float64 {
	elapsed := t - since
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return elapsed.Seconds()
}

// decayFor computes an encounter's decay from its activation and the current
// rate of forgetting: d = c·e^m + α. An encounter without prior activation
// (m = -Inf) decays at α.
func (m *Model) decayFor(activation, alpha float64) float64 {
	return m.cfg.DecayScale*math.Exp(activation) + alpha
}

// replay runs the activation engine over a chronological history and returns
// the activation at t together with the final rate of forgetting.
//
// Every response appends an encounter carrying the activation at that moment;
// α is then refitted and the decay of every encounter so far is recomputed
// with the new α.
func (m *Model) replay(history []models.Response, t time.Duration, defaultAlpha float64) (activation, alpha float64) {
	encounters := make([]encounter, 0, len(history))
	alpha = defaultAlpha

	for _, r := range history {
		act := activationAt(encounters, r.StartTime)
		encounters = append(encounters, encounter{
			activation:   act,
			time:         r.StartTime,
			reactionTime: m.NormalizeReactionTime(r),
			decay:        defaultAlpha,
		})

		alpha = m.estimateAlpha(encounters, act, r, alpha, defaultAlpha)

		for i := range encounters {
			encounters[i].decay = m.decayFor(encounters[i].activation, alpha)
		}
	}

	return activationAt(encounters, t), alpha
}
