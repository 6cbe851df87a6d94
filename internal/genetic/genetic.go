// Package genetic implements a population-based search over whole
// group-mixing schedules: tournament selection, elitism, and
// session-granularity crossover (see crossoverSessions).
package genetic

import (
	"context"
	"time"

	"groupmix/internal/opt"
	"groupmix/internal/placement"
	"groupmix/internal/state"
	"groupmix/internal/xorshift"
)

// Solver is a genetic-search opt.Optimizer over group-mixing schedules.
type Solver struct {
	Cfg Config
}

// New validates cfg and returns a ready Solver.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve runs the genetic-search loop. start must already be placed and
// finalized; the initial population is start re-placed independently
// Population times with diverging RNG streams.
func (solver *Solver) Solve(ctx context.Context, start *state.State) (opt.Result, error) {
	cfg := solver.Cfg
	begin := time.Now()

	pop := make([]*state.State, cfg.Population)
	costs := make([]float64, cfg.Population)
	for i := range pop {
		ind := start.Clone()
		for j := 0; j < i; j++ {
			ind.RNG.Next() // diverge each individual's RNG stream
		}
		if err := placement.Place(ind); err != nil {
			return opt.Result{}, err
		}
		pop[i] = ind
		costs[i] = ind.Weighted()
	}

	bestIdx := argmin(costs)
	best := pop[bestIdx].Clone()
	bestCost := costs[bestIdx]

	selectionRNG := xorshift.Seed(uint64(start.RNG.Next()))
	termination := opt.IterationsExhausted
	gen := 0
	evaluations := 0

loop:
	for ; gen < cfg.Generations; gen++ {
		if ctx.Err() != nil {
			termination = opt.Cancelled
			break loop
		}

		order := argsort(costs)
		next := make([]*state.State, 0, cfg.Population)
		nextCosts := make([]float64, 0, cfg.Population)
		for i := 0; i < cfg.Elite; i++ {
			next = append(next, pop[order[i]])
			nextCosts = append(nextCosts, costs[order[i]])
		}

		for len(next) < cfg.Population {
			a := tournamentSelect(pop, costs, cfg.TournamentSize, selectionRNG)
			b := tournamentSelect(pop, costs, cfg.TournamentSize, selectionRNG)
			var child *state.State
			if selectionRNG.Float64() < cfg.CrossoverRate {
				child = crossoverSessions(pop[a], pop[b], selectionRNG)
			} else {
				child = pop[a].Clone()
			}
			if mutate(child, cfg.MutationRate) {
				child.Recalculate()
			}
			evaluations++
			next = append(next, child)
			nextCosts = append(nextCosts, child.Weighted())
		}

		pop, costs = next, nextCosts
		gi := argmin(costs)
		if costs[gi] < bestCost {
			bestCost = costs[gi]
			best = pop[gi].Clone()
		}
	}

	return opt.Result{
		Best:        best,
		FinalScore:  bestCost,
		Termination: termination,
		Iterations:  gen,
		Evaluations: evaluations,
		Duration:    time.Since(begin),
	}, nil
}

func argmin(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x < xs[best] {
			best = i
		}
	}
	return best
}

// argsort returns indices into xs in ascending order, used to find the
// Elite best individuals each generation.
func argsort(xs []float64) []int {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	for i := 1; i < len(idx); i++ {
		v := idx[i]
		j := i - 1
		for j >= 0 && xs[idx[j]] > xs[v] {
			idx[j+1] = idx[j]
			j--
		}
		idx[j+1] = v
	}
	return idx
}
