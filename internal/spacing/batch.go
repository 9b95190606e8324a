package spacing

import (
	"math"

	"github.com/nvandessel/flipstudy/internal/models"
)

// TestQuestions builds a shuffled post-session test batch from every fact that
// received at least one response.
//
// Facts are normalized to forward orientation, shuffled, truncated to maxFacts
// (zero or negative means all) and then floor(n·flipRatio) of them are flipped;
// flipRatio is clamped into [0, 1]. The batch is shuffled again before it is
// returned. The Model's facts are not modified.
func (m *Model) TestQuestions(flipRatio float64, maxFacts int) []models.Fact {
	var studied []models.Fact
	for _, id := range m.order {
		if len(m.byFact[id]) == 0 {
			continue
		}
		studied = append(studied, m.facts[id].Forward())
	}

	m.shuffle(studied)

	if maxFacts > 0 && maxFacts < len(studied) {
		studied = studied[:maxFacts]
	}

	flipRatio = math.Min(math.Max(flipRatio, 0), 1)
	for i := range int(math.Floor(float64(len(studied)) * flipRatio)) {
		studied[i] = studied[i].Flip()
	}

	m.shuffle(studied)
	return studied
}

func (m *Model) shuffle(facts []models.Fact) {
	m.rng.Shuffle(len(facts), func(i, j int) {
		facts[i], facts[j] = facts[j], facts[i]
	})
}
