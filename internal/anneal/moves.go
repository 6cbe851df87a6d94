package anneal

import "groupmix/internal/state"

// candidate is one priced move ready to accept or reject.
type candidate struct {
	isMulti bool
	sess    int
	p1, p2  int // pair move
	gA, gB  int // multi-swap move
	moversA []int
	moversB []int
	delta   state.Delta
}

const maxMoveAttempts = 20

// pickMove samples one candidate move: a clique (or larger block) swap
// when the problem has cliques and the coin flip favors it, otherwise a
// single pair swap. One candidate move is sampled per iteration.
func pickMove(s *state.State, cliqueMoveProb float64) (candidate, bool) {
	if len(s.Pre.Cliques) > 0 && s.RNG.Float64() < cliqueMoveProb {
		if c, ok := pickCliqueMove(s); ok {
			return c, true
		}
	}
	return pickPairMove(s)
}

func pickPairMove(s *state.State) (candidate, bool) {
	n := s.Maps.NumPeople()
	if n < 2 {
		return candidate{}, false
	}
	for attempt := 0; attempt < maxMoveAttempts; attempt++ {
		sess := s.RNG.Intn(s.NumSessions)
		p1 := s.RNG.Intn(n)
		p2 := s.RNG.Intn(n)
		if p1 == p2 || !s.CanPairSwap(sess, p1, p2) {
			continue
		}
		d := s.PairSwapDelta(sess, p1, p2)
		return candidate{sess: sess, p1: p1, p2: p2, delta: d}, true
	}
	return candidate{}, false
}

func pickCliqueMove(s *state.State) (candidate, bool) {
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
		if anyMemberPinned(s, sess, moversA) || anyMemberPinned(s, sess, moversB) || anyInOtherClique(s, moversB) {
			continue
		}

		d := s.MultiSwapDelta(sess, gA, gB, moversA, moversB)
		return candidate{isMulti: true, sess: sess, gA: gA, gB: gB, moversA: moversA, moversB: moversB, delta: d}, true
	}
	return candidate{}, false
}

func anyMemberPinned(s *state.State, sess int, people []int) bool {
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

// sampleWithout picks k distinct elements from xs via partial
// Fisher-Yates on a scratch copy, without disturbing xs itself.
func sampleWithout(s *state.State, xs []int, k int) []int {
	scratch := append([]int(nil), xs...)
	for i := 0; i < k; i++ {
		j := i + s.RNG.Intn(len(scratch)-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]
	}
	return scratch[:k]
}

func (c candidate) apply(s *state.State) {
	if c.isMulti {
		s.ApplyMultiSwap(c.sess, c.gA, c.gB, c.moversA, c.moversB, c.delta)
		return
	}
	s.ApplyPairSwap(c.sess, c.p1, c.p2, c.delta)
}
