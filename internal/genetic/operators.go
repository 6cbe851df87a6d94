package genetic

import (
	"groupmix/internal/state"
	"groupmix/internal/xorshift"
)

// tournamentSelect runs a TournamentSize-candidate tournament over pop
// (by index) and returns the index of the fittest (lowest-cost)
// candidate.
func tournamentSelect(pop []*state.State, costs []float64, size int, rng *xorshift.State) int {
	best := rng.Intn(len(pop))
	for i := 1; i < size; i++ {
		c := rng.Intn(len(pop))
		if costs[c] < costs[best] {
			best = c
		}
	}
	return best
}

// crossoverSessions builds a child by choosing, independently per
// session, whether to copy that session's whole group assignment from
// parentA or parentB. A session's assignment is internally consistent
// on its own (exact partition, cliques intact, pins honored), so no
// repair step is needed after mixing sessions from two parents.
func crossoverSessions(parentA, parentB *state.State, rng *xorshift.State) *state.State {
	child := parentA.Clone()
	for sess := range child.Schedule {
		if rng.Float64() < 0.5 {
			child.Schedule[sess] = deepCopySession(parentB.Schedule[sess])
		}
	}
	child.Finalize()
	return child
}

func deepCopySession(groups [][]int) [][]int {
	out := make([][]int, len(groups))
	for i, members := range groups {
		out[i] = append([]int(nil), members...)
	}
	return out
}

// mutate applies a handful of random pair swaps directly to the child's
// schedule via RawPairSwap, which only rewrites Schedule/Locations and
// leaves Contacts and the running score fields untouched. It reports
// whether it actually swapped anything, so the caller knows to
// Recalculate before trusting child.Weighted().
func mutate(child *state.State, rate float64) bool {
	if child.RNG.Float64() >= rate {
		return false
	}
	attempts := 1 + child.RNG.Intn(3)
	n := child.Maps.NumPeople()
	if n < 2 {
		return false
	}
	swapped := false
	for i := 0; i < attempts; i++ {
		sess := child.RNG.Intn(child.NumSessions)
		p1 := child.RNG.Intn(n)
		p2 := child.RNG.Intn(n)
		if p1 == p2 || !child.CanPairSwap(sess, p1, p2) {
			continue
		}
		child.RawPairSwap(sess, p1, p2)
		swapped = true
	}
	return swapped
}
