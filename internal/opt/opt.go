// Package opt defines the common interface every local-search strategy
// (Annealer, tabu search, genetic search) implements, and the result
// envelope they all return.
package opt

import (
	"context"
	"time"

	"groupmix/internal/state"
)

// TerminationCode reports why a Solve call stopped.
type TerminationCode string

const (
	Converged           TerminationCode = "Converged"
	TimeLimit           TerminationCode = "TimeLimit"
	NoImprovement       TerminationCode = "NoImprovement"
	IterationsExhausted TerminationCode = "IterationsExhausted"
	Cancelled           TerminationCode = "Cancelled"
)

// Optimizer runs a local search over a starting State and returns the
// best schedule it found.
type Optimizer interface {
	Solve(ctx context.Context, start *state.State) (Result, error)
}

// Result is what every Optimizer returns: the best state found, the
// score that produced it, and run bookkeeping.
type Result struct {
	Best            *state.State
	FinalScore      float64
	Termination     TerminationCode
	Iterations      int
	Evaluations     int
	Duration        time.Duration
	Meta            map[string]any
}
