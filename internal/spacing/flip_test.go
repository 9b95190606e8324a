package spacing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldFlip(t *testing.T) {
	tests := []struct {
		name       string
		polarity   Polarity
		activation float64
		want       bool
	}{
		{"above flips strong orientation", FlipAbove, -0.2, true},
		{"above keeps weak orientation", FlipAbove, -1.2, false},
		{"above keeps unseen orientation", FlipAbove, math.Inf(-1), false},
		{"above at threshold", FlipAbove, -0.75, false},
		{"below flips weak orientation", FlipBelow, -1.2, true},
		{"below flips unseen orientation", FlipBelow, math.Inf(-1), true},
		{"below keeps strong orientation", FlipBelow, -0.2, false},
		{"below at threshold", FlipBelow, -0.75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, func(c *Config) { c.FlipPolarity = tt.polarity })
			assert.Equal(t, tt.want, m.ShouldFlip(tt.activation))
		})
	}
}

func flipping(polarity Polarity) func(*Config) {
	return func(c *Config) {
		c.FlipEnabled = true
		c.FlipPolarity = polarity
	}
}

func TestNextFact_FlipsWellKnownOrientation(t *testing.T) {
	m := newTestModel(t, flipping(FlipAbove), hund)
	respond(t, m, hund, 2*time.Second, 0)

	// Forward orientation at 2s: ln(2^-0.3) ≈ -0.208, above the threshold.
	fact, isNew, err := m.NextFact(2 * time.Second)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.True(t, fact.Flipped)
	assert.Equal(t, "dog", fact.Question)
	assert.Equal(t, "hund", fact.Answer)

	live, err := m.Fact(hund.ID)
	require.NoError(t, err)
	assert.Equal(t, fact, live)
}

func TestNextFact_BelowPolarityKeepsWellKnownOrientation(t *testing.T) {
	m := newTestModel(t, flipping(FlipBelow), hund)
	respond(t, m, hund, 2*time.Second, 0)

	fact, _, err := m.NextFact(2 * time.Second)
	require.NoError(t, err)
	assert.False(t, fact.Flipped)
	assert.Equal(t, hund, fact)
}

func TestNextFact_NewFactsAreNeverFlipped(t *testing.T) {
	// Below polarity would flip any unseen orientation.
	m := newTestModel(t, flipping(FlipBelow), hund, katt)

	fact, isNew, err := m.NextFact(0)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.False(t, fact.Flipped)
	assert.Equal(t, hund, fact)
}

func TestNextFact_FlipDisabled(t *testing.T) {
	m := newTestModel(t, nil, hund)
	respond(t, m, hund, 2*time.Second, 0)

	fact, _, err := m.NextFact(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, hund, fact)
}

func TestFlip_OrientationsHaveSeparateHistories(t *testing.T) {
	m := newTestModel(t, flipping(FlipAbove), hund)
	respond(t, m, hund, 2*time.Second, 0)

	flipped, _, err := m.NextFact(2 * time.Second)
	require.NoError(t, err)
	require.True(t, flipped.Flipped)

	act, err := m.FlipActivation(2*time.Second, hund.ID)
	require.NoError(t, err)
	assert.True(t, math.IsInf(act, -1), "reversed orientation has no history yet")

	alpha, err := m.FlipDecayRate(2*time.Second, hund.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Config().FlipAlpha, alpha)

	respond(t, m, flipped, 2*time.Second, 3*time.Second)

	act, err = m.FlipActivation(4*time.Second, hund.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, act, 1e-12)

	pooled, err := m.Activation(4*time.Second, hund.ID)
	require.NoError(t, err)
	assert.Greater(t, pooled, act, "pooled activation counts both orientations")
}

func TestFlipActivation_UnknownFact(t *testing.T) {
	m := newTestModel(t, nil, hund)

	_, err := m.FlipActivation(0, "missing")
	require.ErrorIs(t, err, ErrUnknownFact)

	_, err = m.FlipDecayRate(0, "missing")
	require.ErrorIs(t, err, ErrUnknownFact)
}
