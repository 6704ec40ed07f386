package repository

import (
	"context"
	"time"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/observability"
)

// Attempt names one step of a fallback chain.
type Attempt string

const (
	AttemptPrimary   Attempt = "primary"
	AttemptLatest    Attempt = "latest"
	AttemptSecondary Attempt = "secondary"
	AttemptProbe     Attempt = "probe"
)

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeSoft
	outcomeHard
)

func (o outcome) String() string {
	switch o {
	case outcomeSuccess:
		return "success"
	case outcomeHard:
		return "hard"
	default:
		return "soft"
	}
}

// step is the tagged result of one attempt. A soft step may carry err (the
// store failed) or notes (the store answered with exceptions). A hard step
// aborts the chain with err.
type step[R any] struct {
	result  R
	outcome outcome
	err     error
	notes   []error
}

func success[R any](r R) step[R] { return step[R]{result: r, outcome: outcomeSuccess} }

func soft[R any](err error) step[R] { return step[R]{outcome: outcomeSoft, err: err} }

func hard[R any](err error) step[R] { return step[R]{outcome: outcomeHard, err: err} }

func declined[R any](notes []error) step[R] { return step[R]{outcome: outcomeSoft, notes: notes} }

type attempt[R any] struct {
	name Attempt
	repo Repository
	run  func(ctx context.Context) step[R]
}

// runAttempts evaluates attempts in order and returns the first success.
// When every attempt fails it returns a *ResolutionError.
func runAttempts[R any](ctx context.Context, s *System, op string, c artifact.Coordinate, attempts []attempt[R]) (R, Attempt, error) {
	var zero R
	hooks := observability.Resolution()
	failure := &ResolutionError{Op: op, Artifact: c}

	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}
		start := time.Now()
		st := a.run(ctx)
		hooks.OnAttempt(ctx, op, string(a.name), st.outcome.String(), time.Since(start), st.err)

		switch st.outcome {
		case outcomeSuccess:
			return st.result, a.name, nil
		case outcomeHard:
			return zero, a.name, st.err
		}

		s.logger.Debug("attempt did not succeed", "op", op, "attempt", a.name, "artifact", c, "error", st.err, "exceptions", len(st.notes))
		switch {
		case st.err != nil:
			failure.Attempts = append(failure.Attempts, &AttemptError{Attempt: a.name, Repository: a.repo, Err: st.err})
		case len(st.notes) > 0:
			failure.Attempts = append(failure.Attempts, &AttemptError{Attempt: a.name, Repository: a.repo, Err: joinNotes(st.notes), Declined: true})
		}
	}

	hooks.OnExhausted(ctx, op, c.String(), len(attempts))
	s.logger.Debug("resolution exhausted", "op", op, "artifact", c, "attempts", len(attempts))
	return zero, "", failure
}

func joinNotes(notes []error) error {
	if len(notes) == 1 {
		return notes[0]
	}
	return errors.New(errors.ErrCodeAttemptFailed, "%d exceptions, first: %v", len(notes), notes[0])
}

// isHard reports whether err must abort a fallback chain: invariant
// violations and cancellation of ctx.
func isHard(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, errors.ErrCodeInvariantViolation)
}
