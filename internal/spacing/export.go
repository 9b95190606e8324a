package spacing

import (
	"time"

	"github.com/nvandessel/flipstudy/internal/models"
)

// ExportRow is one response enriched with the model state right after it.
// The field set is stable for downstream analysis.
type ExportRow struct {
	FactID       string  `json:"fact_id"`
	StartTime    int64   `json:"start_time"`    // ms since session start
	ReactionTime int64   `json:"reaction_time"` // ms
	Correct      bool    `json:"correct"`
	Flipped      bool    `json:"flipped"`
	Alpha        float64 `json:"alpha"`
	Activation   float64 `json:"activation"`
}

// Export replays the response log and returns one row per response, in
// registration order.
//
// Alpha and Activation are computed over the responses recorded under the same
// fact and orientation, up to and including the row's response, evaluated one
// millisecond after its start time. Both values are therefore finite.
func (m *Model) Export() []ExportRow {
	rows := make([]ExportRow, 0, len(m.responses))
	for _, r := range m.responses {
		at := r.StartTime + time.Millisecond
		act, alpha := m.replay(m.orientationHistory(r.Fact.ID, r.Orientation(), at), at, m.cfg.FlipAlpha)

		rows = append(rows, ExportRow{
			FactID:       r.Fact.ID,
			StartTime:    models.Millis(r.StartTime),
			ReactionTime: models.Millis(r.ReactionTime),
			Correct:      r.Correct,
			Flipped:      r.Fact.Flipped,
			Alpha:        alpha,
			Activation:   act,
		})
	}
	return rows
}
