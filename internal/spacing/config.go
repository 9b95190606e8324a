package spacing

import (
	"fmt"
	"math"
	"time"
)

// Polarity selects the comparison the flip policy applies to a fact's
// orientation-specific activation.
type Polarity string

const (
	// FlipAbove flips a fact once its current direction is well learned
	// (activation above the threshold).
	FlipAbove Polarity = "above"

	// FlipBelow flips a fact while its current direction is at risk
	// (activation below the threshold).
	FlipBelow Polarity = "below"
)

// Fit constants for the rate of forgetting estimate.
const (
	minFitEncounters = 3
	fitWindow        = 5
	fitIterations    = 6
	fitStep          = 0.05

	// probeOffset is how long before an encounter its predicted reaction time is
	// evaluated, so the encounter itself is excluded from the activation.
	probeOffset = 100 * time.Millisecond

	// minElapsed replaces non-positive elapsed times in the activation sum.
	minElapsed = time.Millisecond
)

// Config configures a Model.
type Config struct {
	// DefaultAlpha is the rate of forgetting assumed before enough responses
	// exist to fit one. Default: 0.3.
	DefaultAlpha float64 `json:"default_alpha" yaml:"default_alpha"`

	// DecayScale is c in d = c·e^m + α. Default: 0.25.
	DecayScale float64 `json:"decay_scale" yaml:"decay_scale"`

	// LatencyFactor is F in RT = F·e^(-m) + reading time. Default: 1.0.
	LatencyFactor float64 `json:"latency_factor" yaml:"latency_factor"`

	// ForgetThreshold is the activation below which a seen fact is due for
	// repetition before any new fact is introduced. Default: -0.8.
	ForgetThreshold float64 `json:"forget_threshold" yaml:"forget_threshold"`

	// Lookahead is added to the query time when ranking facts, so facts about
	// to drop below the threshold are rehearsed early. Default: 15s.
	Lookahead time.Duration `json:"lookahead" yaml:"lookahead"`

	// FlipEnabled turns the orientation flip policy on.
	FlipEnabled bool `json:"flip_enabled" yaml:"flip_enabled"`

	// FlipThreshold is compared with the orientation-specific activation.
	// Default: -0.75.
	FlipThreshold float64 `json:"flip_threshold" yaml:"flip_threshold"`

	// FlipPolarity selects the comparison direction. Default: FlipAbove.
	FlipPolarity Polarity `json:"flip_polarity" yaml:"flip_polarity"`

	// FlipAlpha is the default rate of forgetting for orientation-specific
	// histories. Default: 0.3.
	FlipAlpha float64 `json:"flip_alpha" yaml:"flip_alpha"`

	// Seed seeds the RNG used to shuffle test batches. Zero picks a time-based seed.
	Seed int64 `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the standard model parameters with flipping enabled.
func DefaultConfig() Config {
	return Config{
		DefaultAlpha:    0.3,
		DecayScale:      0.25,
		LatencyFactor:   1.0,
		ForgetThreshold: -0.8,
		Lookahead:       15 * time.Second,
		FlipEnabled:     true,
		FlipThreshold:   -0.75,
		FlipPolarity:    FlipAbove,
		FlipAlpha:       0.3,
	}
}

// Validate reports whether the configuration can drive a Model.
func (c Config) Validate() error {
	finite := []struct {
		name  string
		value float64
	}{
		{"default_alpha", c.DefaultAlpha},
		{"decay_scale", c.DecayScale},
		{"latency_factor", c.LatencyFactor},
		{"forget_threshold", c.ForgetThreshold},
		{"flip_threshold", c.FlipThreshold},
		{"flip_alpha", c.FlipAlpha},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, f.name)
		}
	}
	if c.DefaultAlpha <= 0 || c.FlipAlpha <= 0 {
		return fmt.Errorf("%w: default alphas must be positive", ErrInvalidConfig)
	}
	if c.DecayScale < 0 {
		return fmt.Errorf("%w: decay_scale %f must not be negative", ErrInvalidConfig, c.DecayScale)
	}
	if c.LatencyFactor <= 0 {
		return fmt.Errorf("%w: latency_factor %f must be positive", ErrInvalidConfig, c.LatencyFactor)
	}
	if c.Lookahead < 0 {
		return fmt.Errorf("%w: lookahead %s must not be negative", ErrInvalidConfig, c.Lookahead)
	}
	switch c.FlipPolarity {
	case FlipAbove, FlipBelow:
	default:
		return fmt.Errorf("%w: flip_polarity %q must be %q or %q", ErrInvalidConfig, c.FlipPolarity, FlipAbove, FlipBelow)
	}
	return nil
}
