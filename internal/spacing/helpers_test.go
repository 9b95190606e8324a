package spacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvandessel/flipstudy/internal/models"
)

// newTestModel builds a Model with flipping disabled and a fixed seed, loaded
// with the given facts.
func newTestModel(t *testing.T, mutate func(*Config), facts ...models.Fact) *Model {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FlipEnabled = false
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := New(cfg)
	require.NoError(t, err)
	for _, f := range facts {
		require.NoError(t, m.AddFact(f))
	}
	return m
}

// respond registers correct answers to fact at the given start times.
func respond(t *testing.T, m *Model, fact models.Fact, rt time.Duration, starts ...time.Duration) {
	t.Helper()
	for _, s := range starts {
		require.NoError(t, m.RegisterResponse(models.Response{
			Fact:         fact,
			StartTime:    s,
			ReactionTime: rt,
			Correct:      true,
		}))
	}
}

func ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}

var (
	hund = models.NewFact("1", "hund", "dog")
	katt = models.NewFact("2", "katt", "cat")
	fisk = models.NewFact("3", "fisk", "fish")
)

// response builds a response with start and reaction times in milliseconds.
func response(f models.Fact, start, rt int64, correct bool) models.Response {
	return models.Response{
		Fact:         f,
		StartTime:    ms(start),
		ReactionTime: ms(rt),
		Correct:      correct,
	}
}

// responseAt builds a response with duration start and reaction times.
func responseAt(f models.Fact, start, rt time.Duration, correct bool) models.Response {
	return models.Response{Fact: f, StartTime: start, ReactionTime: rt, Correct: correct}
}
