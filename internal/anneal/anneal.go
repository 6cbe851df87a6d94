// Package anneal implements the Annealer: the simulated-annealing search
// over State moves, with a Metropolis acceptance criterion and geometric
// cooling schedule over the group-mixing pair-swap/clique-swap move set
// in internal/state.
package anneal

import (
	"context"
	"math"
	"time"

	"groupmix/internal/opt"
	"groupmix/internal/state"
)

// Solver is a simulated-annealing opt.Optimizer over group-mixing
// schedules.
type Solver struct {
	Cfg Config

	// CliqueMoveProb is the chance a candidate move is a clique (block)
	// swap rather than a pair swap, when the problem has any cliques.
	CliqueMoveProb float64
}

// New validates cfg and returns a ready Solver.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg, CliqueMoveProb: 0.2}, nil
}

// Solve runs the annealing loop starting from start, which must already
// be placed and finalized (see internal/placement.Place). It never
// mutates start's schedule in place on the caller's object identity
// beyond what's reachable via Result.Best; internally it works on a
// clone so the caller's starting state is left untouched.
func (solver *Solver) Solve(ctx context.Context, start *state.State) (opt.Result, error) {
	cfg := solver.Cfg
	begin := time.Now()

	current := start.Clone()
	best := start.Clone()
	bestCost := best.Weighted()

	T := cfg.InitialTemp
	iter := 0
	evaluations := 0
	sinceImprovement := 0
	termination := opt.IterationsExhausted

loop:
	for {
		switch {
		case ctx.Err() != nil:
			termination = opt.Cancelled
			break loop
		case cfg.TimeLimit > 0 && time.Since(begin) >= cfg.TimeLimit:
			termination = opt.TimeLimit
			break loop
		case cfg.NoImprovementLimit > 0 && sinceImprovement >= cfg.NoImprovementLimit:
			termination = opt.NoImprovement
			break loop
		case cfg.MaxIterations > 0 && iter >= cfg.MaxIterations:
			termination = opt.IterationsExhausted
			break loop
		case T <= cfg.FinalTemp:
			termination = opt.Converged
			break loop
		}

		cand, ok := pickMove(current, solver.CliqueMoveProb)
		if !ok {
			iter++
			T = nextTemperature(cfg, T, iter)
			continue
		}
		evaluations++

		delta := cand.delta.Weighted(current)
		accept := delta <= 0 || current.RNG.Float64() < math.Exp(-delta/T)
		if accept {
			cand.apply(current)
			if cost := current.Weighted(); cost < bestCost {
				bestCost = cost
				best = current.Clone()
				sinceImprovement = 0
			} else {
				sinceImprovement++
			}
		} else {
			sinceImprovement++
		}

		solver.logProgress(iter, T, current.Weighted(), bestCost)

		iter++
		T = nextTemperature(cfg, T, iter)
	}

	solver.logFinal(termination, iter, bestCost, time.Since(begin))

	return opt.Result{
		Best:        best,
		FinalScore:  bestCost,
		Termination: termination,
		Iterations:  iter,
		Evaluations: evaluations,
		Duration:    time.Since(begin),
	}, nil
}

// nextTemperature implements T(i) = T0*(Tf/T0)^(i/N): recomputed fresh
// from the iteration count rather than compounded multiplicatively, so
// the schedule always reaches FinalTemp at exactly MaxIterations no
// matter what InitialTemp/FinalTemp/MaxIterations were overridden to.
// When MaxIterations is unknown (a time-limited, iteration-unbounded
// run), N has no value to key the exponent off, so it falls back to
// Alpha's constant-ratio decay instead.
func nextTemperature(cfg Config, current float64, iter int) float64 {
	if cfg.MaxIterations > 0 {
		frac := float64(iter) / float64(cfg.MaxIterations)
		return cfg.InitialTemp * math.Pow(cfg.FinalTemp/cfg.InitialTemp, frac)
	}
	return current * cfg.Alpha
}

func (solver *Solver) logProgress(iter int, temp, currentCost, bestCost float64) {
	if solver.Cfg.Logger == nil || solver.Cfg.ProgressStride <= 0 {
		return
	}
	if iter%solver.Cfg.ProgressStride != 0 {
		return
	}
	solver.Cfg.Logger.Debug("annealing progress",
		"iteration", iter, "temperature", temp, "current_cost", currentCost, "best_cost", bestCost)
}

func (solver *Solver) logFinal(term opt.TerminationCode, iter int, bestCost float64, elapsed time.Duration) {
	if solver.Cfg.Logger == nil {
		return
	}
	solver.Cfg.Logger.Info("annealing finished",
		"termination", string(term), "iterations", iter, "best_cost", bestCost, "duration", elapsed)
}
