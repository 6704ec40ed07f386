package repository

import (
	"fmt"
	"strings"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

// ErrNotImplemented is the cause of a [ResolutionError] when no attempt
// produced an error of its own, e.g. when the secondary store simply had
// nothing to offer.
var ErrNotImplemented = errors.New(errors.ErrCodeNotImplemented, "no store could handle the request")

// AttemptError records why one attempt against one store did not succeed.
type AttemptError struct {
	Attempt    Attempt
	Repository Repository
	Err        error
	// Declined is set when the store returned a result carrying
	// exceptions instead of failing outright.
	Declined bool
}

func (e *AttemptError) Error() string {
	verb := "failed"
	if e.Declined {
		verb = "declined"
	}
	return fmt.Sprintf("%s attempt against %s %s: %v", e.Attempt, e.Repository.ID, verb, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// ErrorCode implements errors.Coder.
func (e *AttemptError) ErrorCode() errors.Code { return errors.ErrCodeAttemptFailed }

// ResolutionError is returned when every attempt failed. Attempts lists
// one entry per store tried, in order.
type ResolutionError struct {
	Op       string
	Artifact artifact.Coordinate
	Attempts []*AttemptError
}

// Cause returns the first attempt that failed with an error of its own, or
// [ErrNotImplemented] when no attempt did.
func (e *ResolutionError) Cause() error {
	for _, a := range e.Attempts {
		if !a.Declined {
			return a
		}
	}
	return ErrNotImplemented
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not %s %s", e.Op, e.Artifact)
	if len(e.Attempts) > 0 {
		names := make([]string, len(e.Attempts))
		for i, a := range e.Attempts {
			names[i] = string(a.Attempt)
		}
		fmt.Fprintf(&b, " (tried %s)", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, ": %v", e.Cause())
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Cause() }

// ErrorCode implements errors.Coder.
func (e *ResolutionError) ErrorCode() errors.Code { return errors.ErrCodeResolutionExhausted }

func unsupported(op string) error {
	return errors.New(errors.ErrCodeUnsupported, "%s is not supported by the fallback repository system", op)
}
