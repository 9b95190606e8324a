package spacing

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/flipstudy/internal/models"
)

// NextFact picks the fact to present at now and reports whether it is new.
//
// Every introduced fact is ranked by the activation of its current orientation
// at now + Lookahead. A fact is introduced once it has any response, so a fact
// just flipped to an orientation without history ranks as most overdue (-Inf).
// The weakest introduced fact is returned when no unintroduced facts remain or
// when it is below ForgetThreshold; otherwise the first unintroduced fact in
// ingestion order is returned as new. A returned introduced fact passes through
// the flip policy first. New facts are never flipped.
func (m *Model) NextFact(now time.Duration) (models.Fact, bool, error) {
	if len(m.order) == 0 {
		return models.Fact{}, false, ErrNoFacts
	}

	scores := m.scoreFacts(now + m.cfg.Lookahead)

	weakest, firstNew := -1, -1
	for i, id := range m.order {
		if len(m.byFact[id]) == 0 {
			if firstNew < 0 {
				firstNew = i
			}
			continue
		}
		if weakest < 0 || scores[i] < scores[weakest] {
			weakest = i
		}
	}

	if firstNew < 0 || (weakest >= 0 && scores[weakest] < m.cfg.ForgetThreshold) {
		fact := m.facts[m.order[weakest]]
		if m.cfg.FlipEnabled {
			m.applyFlip(fact, now)
		}
		return *fact, false, nil
	}

	return *m.facts[m.order[firstNew]], true, nil
}

// scoreFacts computes the activation of every fact's current orientation at t,
// in ingestion order. Each fact's replay only reads the Model, so facts are
// scored concurrently.
func (m *Model) scoreFacts(t time.Duration) []float64 {
	scores := make([]float64, len(m.order))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range m.order {
		o := m.facts[id].Orientation()
		g.Go(func() error {
			scores[i], _ = m.replay(m.orientationHistory(id, o, t), t, m.cfg.DefaultAlpha)
			return nil
		})
	}
	_ = g.Wait() // replays never fail

	return scores
}
