// Package spacing implements an adaptive fact scheduler for vocabulary study.
//
// Memory strength is modelled with ACT-R base-level activation over a fact's
// encounter history:
//
//	m(t) = ln Σ (t - t_i)^(-d_i)
//
// where each encounter's decay d_i = c·e^(m_i) + α depends on the activation at
// the time of that encounter and on the fact's rate of forgetting α. α is fitted
// online from the learner's reaction times: slower than predicted answers push it
// up, faster ones push it down.
//
// On top of the scheduler a flip policy decides whether a fact is presented with
// question and answer swapped. Activation and α are tracked separately per
// orientation, so knowing "hund → dog" does not hide forgetting "dog → hund".
//
// Basic usage:
//
//	m, err := spacing.New(spacing.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = m.AddFact(models.NewFact("1", "hund", "dog"))
//
//	fact, isNew, err := m.NextFact(now)
//	// ... present fact, read answer ...
//	err = m.RegisterResponse(models.Response{Fact: fact, StartTime: now, ReactionTime: rt, Correct: ok})
//
// A Model is not safe for concurrent mutation.
package spacing
