package spacing

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/nvandessel/flipstudy/internal/models"
)

// orientationKey indexes a fact's responses recorded under one orientation.
type orientationKey struct {
	id          string
	orientation models.Orientation
}

// Model owns the facts of a study session and the log of responses to them.
type Model struct {
	cfg Config

	facts map[string]*models.Fact
	order []string // fact IDs in ingestion order

	responses     []models.Response
	byFact        map[string][]int         // response indices per fact, any orientation
	byOrientation map[orientationKey][]int // response indices per fact and orientation

	rng *rand.Rand
}

// New creates an empty Model. Invalid configuration returns ErrInvalidConfig.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Model{
		cfg:           cfg,
		facts:         make(map[string]*models.Fact),
		byFact:        make(map[string][]int),
		byOrientation: make(map[orientationKey][]int),
		rng:           rand.New(rand.NewSource(seed)),
	}, nil
}

// Config returns the configuration the Model was built with.
func (m *Model) Config() Config {
	return m.cfg
}

// AddFact adds a fact to the study set. IDs must be unique.
func (m *Model) AddFact(f models.Fact) error {
	if _, ok := m.facts[f.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFact, f.ID)
	}
	fact := f
	m.facts[f.ID] = &fact
	m.order = append(m.order, f.ID)
	return nil
}

// Fact returns the live fact with the given ID in its current orientation.
func (m *Model) Fact(id string) (models.Fact, error) {
	f, ok := m.facts[id]
	if !ok {
		return models.Fact{}, fmt.Errorf("%w: %q", ErrUnknownFact, id)
	}
	return *f, nil
}

// Facts returns all facts in ingestion order.
func (m *Model) Facts() []models.Fact {
	out := make([]models.Fact, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.facts[id])
	}
	return out
}

// Responses returns a copy of the response log in registration order.
func (m *Model) Responses() []models.Response {
	return slices.Clone(m.responses)
}

// RegisterResponse appends a learner response to the log.
//
// A response whose start time equals the previous response's start time is a
// duplicate submission and is rejected with ErrDuplicateResponse.
func (m *Model) RegisterResponse(r models.Response) error {
	if _, ok := m.facts[r.Fact.ID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFact, r.Fact.ID)
	}
	if n := len(m.responses); n > 0 && m.responses[n-1].StartTime == r.StartTime {
		return fmt.Errorf("%w: %s", ErrDuplicateResponse, r.StartTime)
	}

	idx := len(m.responses)
	m.responses = append(m.responses, r)
	m.byFact[r.Fact.ID] = append(m.byFact[r.Fact.ID], idx)
	key := orientationKey{id: r.Fact.ID, orientation: r.Orientation()}
	m.byOrientation[key] = append(m.byOrientation[key], idx)
	return nil
}

// Activation returns the activation of a fact at t over all of its responses,
// regardless of orientation. A fact without responses before t returns -Inf.
func (m *Model) Activation(t time.Duration, id string) (float64, error) {
	if _, ok := m.facts[id]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFact, id)
	}
	act, _ := m.replay(m.historyBefore(m.byFact[id], t), t, m.cfg.DefaultAlpha)
	return act, nil
}

// RateOfForgetting returns the fitted α of a fact at t over all of its
// responses. A fact without enough responses returns Config.DefaultAlpha.
func (m *Model) RateOfForgetting(t time.Duration, id string) (float64, error) {
	if _, ok := m.facts[id]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFact, id)
	}
	_, alpha := m.replay(m.historyBefore(m.byFact[id], t), t, m.cfg.DefaultAlpha)
	return alpha, nil
}

// historyBefore collects the indexed responses that started strictly before t,
// ordered by start time.
func (m *Model) historyBefore(indices []int, t time.Duration) []models.Response {
	out := make([]models.Response, 0, len(indices))
	for _, i := range indices {
		if r := m.responses[i]; r.StartTime < t {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Response) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// orientationHistory returns a fact's responses recorded under one orientation
// strictly before t.
func (m *Model) orientationHistory(id string, o models.Orientation, t time.Duration) []models.Response {
	return m.historyBefore(m.byOrientation[orientationKey{id: id, orientation: o}], t)
}
