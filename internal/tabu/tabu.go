// Package tabu implements tabu search over the same group-mixing move
// set as internal/anneal, replacing the Metropolis acceptance rule with
// a tabu list over reverse moves plus an aspiration criterion: sample
// NeighborsPerIter random moves per iteration, track the best non-tabu
// move (aspiration overrides tabu when it beats the best-ever cost) and
// a fallback best-overall move for when every sample is tabu.
package tabu

import (
	"context"
	"time"

	"groupmix/internal/opt"
	"groupmix/internal/state"
)

// Solver is a tabu-search opt.Optimizer over group-mixing schedules.
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

type sampledMove struct {
	isMulti bool
	sess    int
	p1, p2  int
	gA, gB  int
	moversA []int
	moversB []int
	delta   state.Delta
	key     uint64
}

func (m sampledMove) apply(s *state.State) {
	if m.isMulti {
		s.ApplyMultiSwap(m.sess, m.gA, m.gB, m.moversA, m.moversB, m.delta)
		return
	}
	s.ApplyPairSwap(m.sess, m.p1, m.p2, m.delta)
}

// Solve runs the tabu-search loop starting from start, which must
// already be placed and finalized.
func (solver *Solver) Solve(ctx context.Context, start *state.State) (opt.Result, error) {
	cfg := solver.Cfg
	begin := time.Now()

	current := start.Clone()
	best := start.Clone()
	bestCost := best.Weighted()
	currentCost := current.Weighted()

	list := newTabuList(cfg.NeighborsPerIter * 4)
	termination := opt.IterationsExhausted
	iter := 0
	evaluations := 0

loop:
	for ; iter < cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			termination = opt.Cancelled
			break loop
		}

		var bestMove, fallback *sampledMove
		var bestMoveCost, fallbackCost float64

		for n := 0; n < cfg.NeighborsPerIter; n++ {
			m, ok := sampleMove(current, cfg.CliqueMoveProb)
			if !ok {
				continue
			}
			evaluations++
			cost := currentCost + m.delta.Weighted(current)

			if fallback == nil || cost < fallbackCost {
				mm := m
				fallback = &mm
				fallbackCost = cost
			}

			tabu := list.IsTabu(m.key, iter)
			aspires := cost < bestCost
			if tabu && !aspires {
				continue
			}
			if bestMove == nil || cost < bestMoveCost {
				mm := m
				bestMove = &mm
				bestMoveCost = cost
			}
		}

		chosen := bestMove
		chosenCost := bestMoveCost
		if chosen == nil {
			chosen = fallback
			chosenCost = fallbackCost
		}
		if chosen == nil {
			continue
		}

		chosen.apply(current)
		currentCost = chosenCost
		tenure := cfg.TabuTenure
		if cfg.TabuTenureRand > 0 {
			tenure += current.RNG.Intn(cfg.TabuTenureRand + 1)
		}
		list.Add(chosen.key, iter+tenure)

		if currentCost < bestCost {
			bestCost = currentCost
			best = current.Clone()
		}
	}

	return opt.Result{
		Best:        best,
		FinalScore:  bestCost,
		Termination: termination,
		Iterations:  iter,
		Evaluations: evaluations,
		Duration:    time.Since(begin),
	}, nil
}

const maxMoveAttempts = 20

func sampleMove(s *state.State, cliqueMoveProb float64) (sampledMove, bool) {
	if len(s.Pre.Cliques) > 0 && s.RNG.Float64() < cliqueMoveProb {
		if m, ok := sampleCliqueMove(s); ok {
			return m, true
		}
	}
	return samplePairMove(s)
}

func samplePairMove(s *state.State) (sampledMove, bool) {
	n := s.Maps.NumPeople()
	if n < 2 {
		return sampledMove{}, false
	}
	for attempt := 0; attempt < maxMoveAttempts; attempt++ {
		sess := s.RNG.Intn(s.NumSessions)
		p1 := s.RNG.Intn(n)
		p2 := s.RNG.Intn(n)
		if p1 == p2 || !s.CanPairSwap(sess, p1, p2) {
			continue
		}
		return sampledMove{sess: sess, p1: p1, p2: p2, delta: s.PairSwapDelta(sess, p1, p2), key: pairKey(sess, p1, p2)}, true
	}
	return sampledMove{}, false
}

func sampleCliqueMove(s *state.State) (sampledMove, bool) {
	cliques := s.Pre.Cliques
	for attempt := 0; attempt < maxMoveAttempts; attempt++ {
		ci := s.RNG.Intn(len(cliques))
		cl := cliques[ci]
		sess := s.RNG.Intn(s.NumSessions)
		if !cl.Sessions[sess] {
			continue
		}
		var moversA []int
		gA := -1
		for _, p := range cl.Members {
			if !s.Maps.PersonSessions[p][sess] {
				continue
			}
			if gA == -1 {
				gA = s.Locations[sess][p].Group
			}
			moversA = append(moversA, p)
		}
		if len(moversA) == 0 || gA == -1 {
			continue
		}
		gB := s.RNG.Intn(s.Maps.NumGroups())
		if gB == gA {
			continue
		}
		members := s.Schedule[sess][gB]
		if len(members) < len(moversA) {
			continue
		}
		moversB := sampleWithout(s, members, len(moversA))
		if anyPinned(s, sess, moversA) || anyPinned(s, sess, moversB) || anyInOtherClique(s, moversB) {
			continue
		}
		return sampledMove{
			isMulti: true, sess: sess, gA: gA, gB: gB,
			moversA: moversA, moversB: moversB,
			delta: s.MultiSwapDelta(sess, gA, gB, moversA, moversB),
			key:   groupPairKey(sess, gA, gB),
		}, true
	}
	return sampledMove{}, false
}

func anyPinned(s *state.State, sess int, people []int) bool {
	for _, p := range people {
		for _, pin := range s.Pre.Pins {
			if pin.Person == p && pin.Sessions[sess] {
				return true
			}
		}
	}
	return false
}

func anyInOtherClique(s *state.State, people []int) bool {
	for _, p := range people {
		if s.Pre.PersonToClique[p] != -1 {
			return true
		}
	}
	return false
}

func sampleWithout(s *state.State, xs []int, k int) []int {
	scratch := append([]int(nil), xs...)
	for i := 0; i < k; i++ {
		j := i + s.RNG.Intn(len(scratch)-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]
	}
	return scratch[:k]
}
