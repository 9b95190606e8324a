package spacing

import (
	"fmt"
	"time"

	"github.com/nvandessel/flipstudy/internal/models"
)

// FlipActivation returns the activation of a fact at t over the responses
// recorded under its current orientation only.
func (m *Model) FlipActivation(t time.Duration, id string) (float64, error) {
	f, ok := m.facts[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFact, id)
	}
	act, _ := m.replay(m.orientationHistory(id, f.Orientation(), t), t, m.cfg.FlipAlpha)
	return act, nil
}

// FlipDecayRate returns the fitted α of a fact's current orientation at t.
// It has no side effects and returns Config.FlipAlpha without enough history.
func (m *Model) FlipDecayRate(t time.Duration, id string) (float64, error) {
	f, ok := m.facts[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFact, id)
	}
	_, alpha := m.replay(m.orientationHistory(id, f.Orientation(), t), t, m.cfg.FlipAlpha)
	return alpha, nil
}

// ShouldFlip applies the configured threshold and polarity to an
// orientation-specific activation.
func (m *Model) ShouldFlip(activation float64) bool {
	if m.cfg.FlipPolarity == FlipBelow {
		return activation < m.cfg.FlipThreshold
	}
	return activation > m.cfg.FlipThreshold
}

// applyFlip flips the fact in place when the policy says so and reports whether
// it did.
func (m *Model) applyFlip(fact *models.Fact, now time.Duration) bool {
	act, _ := m.replay(m.orientationHistory(fact.ID, fact.Orientation(), now), now, m.cfg.FlipAlpha)
	if !m.ShouldFlip(act) {
		return false
	}
	*fact = fact.Flip()
	return true
}
