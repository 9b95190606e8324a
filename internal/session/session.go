// Package session runs the interactive study loop and the post-session test.
//
// The loop is line based: a prompt is written to out, one line is read from in.
// Typing "exit" or closing the input ends the session early.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nvandessel/flipstudy/internal/models"
	"github.com/nvandessel/flipstudy/internal/sanitize"
	"github.com/nvandessel/flipstudy/internal/spacing"
)

// ExitCommand ends a session when typed as an answer.
const ExitCommand = "exit"

// Engine schedules facts and learns from responses. *spacing.Model satisfies it.
type Engine interface {
	NextFact(now time.Duration) (models.Fact, bool, error)
	RegisterResponse(r models.Response) error
	Activation(t time.Duration, id string) (float64, error)
}

// StopReason says why a session ended.
type StopReason string

const (
	StopTime     StopReason = "time"
	StopTrials   StopReason = "trials"
	StopExit     StopReason = "exit"
	StopEOF      StopReason = "eof"
	StopCanceled StopReason = "canceled"
)

// Options bounds a session. Whichever limit is reached first ends it.
type Options struct {
	Duration  time.Duration
	MaxTrials int // 0 = unlimited
}

// Summary describes a finished study session.
type Summary struct {
	Trials  int
	Correct int
	New     int
	Flipped int
	Elapsed time.Duration
	Reason  StopReason
}

// Runner drives one study session against an Engine.
type Runner struct {
	engine Engine
	lines  <-chan string
	out    io.Writer
	log    *logrus.Entry
	opts   Options
	now    func() time.Time
	start  time.Time
}

// NewRunner creates a Runner reading answers from in and writing prompts to out.
// Input is read until ctx is done; cancel it once the Runner is no longer used.
func NewRunner(ctx context.Context, engine Engine, in io.Reader, out io.Writer, log *logrus.Entry, opts Options) *Runner {
	return &Runner{
		engine: engine,
		lines:  readLines(ctx, in),
		out:    out,
		log:    log,
		opts:   opts,
		now:    time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run presents facts until a limit is hit, the learner exits, the input ends or
// ctx is canceled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	r.start = r.now()
	var sum Summary

	for {
		elapsed := r.elapsed()
		if r.opts.Duration > 0 && elapsed >= r.opts.Duration {
			sum.Reason = StopTime
			break
		}
		if r.opts.MaxTrials > 0 && sum.Trials >= r.opts.MaxTrials {
			sum.Reason = StopTrials
			break
		}

		fact, isNew, err := r.engine.NextFact(elapsed)
		if err != nil {
			return sum, fmt.Errorf("selecting next fact: %w", err)
		}
		r.logTrial(fact, isNew, elapsed)

		if isNew {
			fmt.Fprintf(r.out, "New vocabulary: %s means %s!\nPlease type what %s means below.\n",
				fact.Answer, fact.Question, fact.Question)
		} else {
			fmt.Fprintf(r.out, "What is the translation of %s?\n", fact.Question)
		}

		answer, reason := r.readAnswer(ctx)
		if reason != "" {
			sum.Reason = reason
			break
		}

		resp := models.Response{
			Fact:         fact,
			StartTime:    elapsed,
			ReactionTime: r.elapsed() - elapsed,
			Correct:      sanitize.Matches(answer, fact.Answer),
		}
		if err := r.engine.RegisterResponse(resp); err != nil {
			if !errors.Is(err, spacing.ErrDuplicateResponse) {
				return sum, fmt.Errorf("registering response: %w", err)
			}
			r.log.WithError(err).WithField("fact_id", fact.ID).Warn("dropped duplicate response")
		}

		sum.Trials++
		if resp.Correct {
			sum.Correct++
		}
		if isNew {
			sum.New++
		}
		if fact.Flipped {
			sum.Flipped++
		}
	}

	sum.Elapsed = r.elapsed()
	r.log.WithFields(logrus.Fields{
		"trials":  sum.Trials,
		"correct": sum.Correct,
		"new":     sum.New,
		"flipped": sum.Flipped,
		"elapsed": sum.Elapsed.Round(time.Millisecond).String(),
		"reason":  sum.Reason,
	}).Info("session finished")
	return sum, nil
}

// RunTest asks every fact once, in order, and records the answers. Facts are
// presented as given, so flipped facts are asked in reverse.
func (r *Runner) RunTest(ctx context.Context, facts []models.Fact) ([]models.TestResult, error) {
	if r.start.IsZero() {
		r.start = r.now()
	}
	fmt.Fprintf(r.out, "Test: %d questions.\n", len(facts))

	results := make([]models.TestResult, 0, len(facts))
	for _, fact := range facts {
		shown := r.now()
		fmt.Fprintf(r.out, "What is the translation of %s?\n", fact.Question)

		answer, reason := r.readAnswer(ctx)
		if reason == StopCanceled {
			return results, ctx.Err()
		}
		if reason != "" {
			break
		}

		results = append(results, models.TestResult{
			Fact:         fact,
			Typed:        answer,
			Correct:      sanitize.Matches(answer, fact.Answer),
			ReactionTime: r.now().Sub(shown),
		})
	}

	r.log.WithFields(logrus.Fields{
		"questions": len(facts),
		"answered":  len(results),
		"correct":   countCorrect(results),
	}).Info("test finished")
	return results, nil
}

func (r *Runner) elapsed() time.Duration {
	return r.now().Sub(r.start)
}

// readAnswer waits for the next line. A non-empty reason means the session
// must stop.
func (r *Runner) readAnswer(ctx context.Context) (string, StopReason) {
	select {
	case <-ctx.Done():
		return "", StopCanceled
	case line, ok := <-r.lines:
		if !ok {
			return "", StopEOF
		}
		answer := strings.TrimSpace(line)
		if answer == ExitCommand {
			return "", StopExit
		}
		return answer, ""
	}
}

func (r *Runner) logTrial(fact models.Fact, isNew bool, at time.Duration) {
	if !r.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	fields := logrus.Fields{
		"fact_id": fact.ID,
		"new":     isNew,
		"flipped": fact.Flipped,
		"at_ms":   models.Millis(at),
	}
	if act, err := r.engine.Activation(at, fact.ID); err == nil {
		fields["activation"] = act
	}
	r.log.WithFields(fields).Debug("presenting fact")
}

// readLines feeds lines from in to a channel so reads can be abandoned on
// cancellation. The channel is closed at EOF or once ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func countCorrect(results []models.TestResult) int {
	n := 0
	for _, r := range results {
		if r.Correct {
			n++
		}
	}
	return n
}
