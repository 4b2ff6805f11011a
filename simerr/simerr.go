// Package simerr defines the solver's fatal error taxonomy. Every error the
// solver can return wraps one of these sentinels so callers can
// errors.Is-match on the code while still getting a human-readable detail
// string, the same pattern the persistence layer this module was adapted
// from uses for its own sentinel errors.
package simerr

import (
	"errors"
	"fmt"
)

// Code is a fatal, non-recoverable solver error class. All of them abort
// the run at the next barrier; none are retried.
type Code error

var (
	// NegativeState: an operation would leave a compartment below zero.
	NegativeState Code = errors.New("NEGATIVE_STATE")
	// AllocMemoryBuffer: a required buffer could not be sized from the
	// configuration (Nn <= 0, empty tspan, an input slice of the wrong
	// length); the solver also reports a model post-step failure with it.
	AllocMemoryBuffer Code = errors.New("ALLOC_MEMORY_BUFFER")
	// UnsupportedParallelization: Nthread < 1, or Nthread > Nn.
	UnsupportedParallelization Code = errors.New("UNSUPPORTED_PARALLELIZATION")
	// UndefinedEvent: an event_kind outside {EXIT,ENTER,INTERNAL_TRANSFER,EXTERNAL_TRANSFER}.
	UndefinedEvent Code = errors.New("UNDEFINED_EVENT")
	// SampleSelect: an infeasible or malformed sample_select request.
	SampleSelect Code = errors.New("SAMPLE_SELECT")
	// InvalidRate: a propensity returned NaN, +/-Inf, or a negative value.
	InvalidRate Code = errors.New("INVALID_RATE")
)

// Wrap produces an error reporting code with a detail string, still
// matchable via errors.Is(err, code).
func Wrap(code Code, detailFmt string, args ...interface{}) error {
	return &wrapped{code: code, detail: fmt.Sprintf(detailFmt, args...)}
}

type wrapped struct {
	code   Code
	detail string
}

func (w *wrapped) Error() string { return w.code.Error() + ": " + w.detail }
func (w *wrapped) Unwrap() error { return w.code }
func (w *wrapped) Is(target error) bool {
	return target == w.code
}
