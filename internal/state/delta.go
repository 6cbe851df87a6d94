package state

// This file implements the Delta Evaluator and Mutator: pure delta
// functions paired with an Apply that performs the identical move on the
// schedule and updates the running scores by exactly the precomputed
// delta, so Validate (full recompute) always agrees with the running
// totals.

// Delta is the change a candidate move would make to the weighted cost,
// broken down by component.
type Delta struct {
	UniqueContacts          int
	RepetitionPenalty       float64
	AttributeBalancePenalty float64
	ConstraintPenalty       float64
}

// Weighted folds a Delta into the same scalar Weighted combines the
// running totals with.
func (d Delta) Weighted(s *State) float64 {
	return -s.WContacts*float64(d.UniqueContacts) +
		s.WRepetition*d.RepetitionPenalty +
		s.WAttribute*d.AttributeBalancePenalty +
		d.ConstraintPenalty
}

// CanPairSwap reports whether p1 and p2 may be exchanged within sess: both
// must attend the session, sit in different groups, not be pinned there,
// and not belong to a multi-member clique (cliques move as a block via
// MultiSwap instead).
func (s *State) CanPairSwap(sess, p1, p2 int) bool {
	l1, l2 := s.Locations[sess][p1], s.Locations[sess][p2]
	if l1.Group == -1 || l2.Group == -1 || l1.Group == l2.Group {
		return false
	}
	if s.Pre.PersonToClique[p1] != -1 || s.Pre.PersonToClique[p2] != -1 {
		return false
	}
	return !s.isPinned(sess, p1) && !s.isPinned(sess, p2)
}

func (s *State) isPinned(sess, p int) bool {
	for _, pin := range s.Pre.Pins {
		if pin.Person == p && pin.Sessions[sess] {
			return true
		}
	}
	return false
}

// PairSwapDelta computes, without mutating, the cost change from
// swapping p1 and p2's groups within session sess.
func (s *State) PairSwapDelta(sess, p1, p2 int) Delta {
	g1, g2 := s.Locations[sess][p1].Group, s.Locations[sess][p2].Group
	if g1 == g2 {
		return Delta{}
	}

	var uniqueDelta int
	var repDelta float64
	for _, other := range s.Schedule[sess][g1] {
		if other == p1 {
			continue
		}
		du, dr := s.transitionDelta(p1, other, false)
		uniqueDelta += du
		repDelta += dr
		du, dr = s.transitionDelta(p2, other, true)
		uniqueDelta += du
		repDelta += dr
	}
	for _, other := range s.Schedule[sess][g2] {
		if other == p2 {
			continue
		}
		du, dr := s.transitionDelta(p2, other, false)
		uniqueDelta += du
		repDelta += dr
		du, dr = s.transitionDelta(p1, other, true)
		uniqueDelta += du
		repDelta += dr
	}

	before := s.attributeBalancePenaltyForGroup(sess, g1) + s.attributeBalancePenaltyForGroup(sess, g2)
	s.swapInPlace(sess, p1, p2)
	after := s.attributeBalancePenaltyForGroup(sess, g1) + s.attributeBalancePenaltyForGroup(sess, g2)
	s.swapInPlace(sess, p1, p2) // revert
	attrDelta := after - before

	conDelta := s.pairSwapConstraintDelta(sess, p1, p2, g1, g2)

	return Delta{UniqueContacts: uniqueDelta, RepetitionPenalty: repDelta, AttributeBalancePenalty: attrDelta, ConstraintPenalty: conDelta}
}

// transitionDelta reports the unique-contacts and repetition-penalty
// change from a and b's shared-group count moving by +1 (forming, when
// breaking is false) or -1 (breaking).
func (s *State) transitionDelta(a, b int, breaking bool) (int, float64) {
	c := s.Contacts[a][b]
	var newC uint32
	if breaking {
		newC = c - 1
	} else {
		newC = c + 1
	}
	uniqueDelta := boolToInt(newC > 0) - boolToInt(c > 0)
	repDelta := s.repetitionPenaltyOf(newC) - s.repetitionPenaltyOf(c)
	return uniqueDelta, repDelta
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// swapInPlace exchanges p1 and p2 between their current groups in
// Schedule/Locations, without touching Contacts or the running scores.
func (s *State) swapInPlace(sess, p1, p2 int) {
	l1, l2 := s.Locations[sess][p1], s.Locations[sess][p2]
	s.Schedule[sess][l1.Group][l1.Pos] = p2
	s.Schedule[sess][l2.Group][l2.Pos] = p1
	s.Locations[sess][p1], s.Locations[sess][p2] = l2, l1
}

func (s *State) pairSwapConstraintDelta(sess, p1, p2, g1, g2 int) float64 {
	groupOf := func(person int, before bool) int {
		switch person {
		case p1:
			if before {
				return g1
			}
			return g2
		case p2:
			if before {
				return g2
			}
			return g1
		default:
			return s.Locations[sess][person].Group
		}
	}
	return s.forbiddenDeltaFor(sess, p1, p2, groupOf)
}

func (s *State) forbiddenDeltaFor(sess, a, b int, groupOf func(person int, before bool) int) float64 {
	seen := make(map[int]bool)
	var total float64
	consider := func(fp int) {
		if seen[fp] {
			return
		}
		seen[fp] = true
		pair := s.Pre.ForbiddenPairs[fp]
		if !pair.Sessions[sess] {
			return
		}
		wasTogether := groupOf(pair.P1, true) == groupOf(pair.P2, true)
		nowTogether := groupOf(pair.P1, false) == groupOf(pair.P2, false)
		if wasTogether == nowTogether {
			return
		}
		if nowTogether {
			total += pair.PenaltyWeight
		} else {
			total -= pair.PenaltyWeight
		}
	}
	for _, fp := range s.forbiddenByPerson(a) {
		consider(fp)
	}
	for _, fp := range s.forbiddenByPerson(b) {
		consider(fp)
	}
	return total
}

func (s *State) forbiddenByPerson(p int) []int {
	var out []int
	for i, fp := range s.Pre.ForbiddenPairs {
		if fp.P1 == p || fp.P2 == p {
			out = append(out, i)
		}
	}
	return out
}

// ApplyPairSwap performs the swap PairSwapDelta priced and updates the
// running scores by exactly that delta.
func (s *State) ApplyPairSwap(sess, p1, p2 int, d Delta) {
	g1, g2 := s.Locations[sess][p1].Group, s.Locations[sess][p2].Group
	for _, other := range s.Schedule[sess][g1] {
		if other == p1 {
			continue
		}
		s.Contacts[p1][other]--
		s.Contacts[other][p1]--
		s.Contacts[p2][other]++
		s.Contacts[other][p2]++
	}
	for _, other := range s.Schedule[sess][g2] {
		if other == p2 {
			continue
		}
		s.Contacts[p2][other]--
		s.Contacts[other][p2]--
		s.Contacts[p1][other]++
		s.Contacts[other][p1]++
	}
	s.swapInPlace(sess, p1, p2)

	s.UniqueContacts += d.UniqueContacts
	s.RepetitionPenalty += d.RepetitionPenalty
	s.AttributeBalancePenalty += d.AttributeBalancePenalty
	s.ConstraintPenalty += d.ConstraintPenalty
}

// MultiSwapDelta prices exchanging moversA (currently in groupA) with
// moversB (currently in groupB) within session sess. len(moversA) must
// equal len(moversB) so group sizes are preserved. Used to move a clique
// as one block instead of one person at a time.
func (s *State) MultiSwapDelta(sess, groupA, groupB int, moversA, moversB []int) Delta {
	inA := toSet(moversA)
	inB := toSet(moversB)
	stayersA := filterOut(s.Schedule[sess][groupA], inA)
	stayersB := filterOut(s.Schedule[sess][groupB], inB)

	var uniqueDelta int
	var repDelta float64
	for _, a := range moversA {
		for _, stayer := range stayersA {
			du, dr := s.transitionDelta(a, stayer, true)
			uniqueDelta += du
			repDelta += dr
		}
		for _, stayer := range stayersB {
			du, dr := s.transitionDelta(a, stayer, false)
			uniqueDelta += du
			repDelta += dr
		}
	}
	for _, b := range moversB {
		for _, stayer := range stayersB {
			du, dr := s.transitionDelta(b, stayer, true)
			uniqueDelta += du
			repDelta += dr
		}
		for _, stayer := range stayersA {
			du, dr := s.transitionDelta(b, stayer, false)
			uniqueDelta += du
			repDelta += dr
		}
	}

	before := s.attributeBalancePenaltyForGroup(sess, groupA) + s.attributeBalancePenaltyForGroup(sess, groupB)
	s.exchangeGroups(sess, moversA, moversB)
	after := s.attributeBalancePenaltyForGroup(sess, groupA) + s.attributeBalancePenaltyForGroup(sess, groupB)
	s.exchangeGroups(sess, moversA, moversB) // self-inverse: revert
	attrDelta := after - before

	groupOf := func(person int, before bool) int {
		if inA[person] {
			if before {
				return groupA
			}
			return groupB
		}
		if inB[person] {
			if before {
				return groupB
			}
			return groupA
		}
		return s.Locations[sess][person].Group
	}
	var conDelta float64
	seen := make(map[int]bool)
	for _, p := range append(append([]int{}, moversA...), moversB...) {
		for i, fp := range s.Pre.ForbiddenPairs {
			if seen[i] || (fp.P1 != p && fp.P2 != p) {
				continue
			}
			seen[i] = true
			if !fp.Sessions[sess] {
				continue
			}
			was := groupOf(fp.P1, true) == groupOf(fp.P2, true)
			now := groupOf(fp.P1, false) == groupOf(fp.P2, false)
			if was == now {
				continue
			}
			if now {
				conDelta += fp.PenaltyWeight
			} else {
				conDelta -= fp.PenaltyWeight
			}
		}
	}

	return Delta{UniqueContacts: uniqueDelta, RepetitionPenalty: repDelta, AttributeBalancePenalty: attrDelta, ConstraintPenalty: conDelta}
}

// exchangeGroups swaps left and right (equal length, currently sitting
// in two different groups of the same session) into each other's exact
// slots. It reads each person's current Location rather than assuming a
// fixed group, which makes it its own inverse: calling it twice in a
// row with the same arguments restores the original arrangement.
// Schedule/Locations only; scores are untouched.
func (s *State) exchangeGroups(sess int, left, right []int) {
	leftLoc := make([]Location, len(left))
	rightLoc := make([]Location, len(right))
	for i, p := range left {
		leftLoc[i] = s.Locations[sess][p]
	}
	for i, p := range right {
		rightLoc[i] = s.Locations[sess][p]
	}
	for i, p := range right {
		s.Schedule[sess][leftLoc[i].Group][leftLoc[i].Pos] = p
		s.Locations[sess][p] = leftLoc[i]
	}
	for i, p := range left {
		s.Schedule[sess][rightLoc[i].Group][rightLoc[i].Pos] = p
		s.Locations[sess][p] = rightLoc[i]
	}
}

func toSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func filterOut(xs []int, drop map[int]bool) []int {
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if !drop[x] {
			out = append(out, x)
		}
	}
	return out
}

// ApplyMultiSwap performs the exchange MultiSwapDelta priced and updates
// the running scores by exactly that delta.
func (s *State) ApplyMultiSwap(sess, groupA, groupB int, moversA, moversB []int, d Delta) {
	inA := toSet(moversA)
	inB := toSet(moversB)
	stayersA := filterOut(s.Schedule[sess][groupA], inA)
	stayersB := filterOut(s.Schedule[sess][groupB], inB)

	applyContacts := func(movers, stayersSame, stayersOther []int) {
		for _, m := range movers {
			for _, st := range stayersSame {
				s.Contacts[m][st]--
				s.Contacts[st][m]--
			}
			for _, st := range stayersOther {
				s.Contacts[m][st]++
				s.Contacts[st][m]++
			}
		}
	}
	applyContacts(moversA, stayersA, stayersB)
	applyContacts(moversB, stayersB, stayersA)

	s.exchangeGroups(sess, moversA, moversB)

	s.UniqueContacts += d.UniqueContacts
	s.RepetitionPenalty += d.RepetitionPenalty
	s.AttributeBalancePenalty += d.AttributeBalancePenalty
	s.ConstraintPenalty += d.ConstraintPenalty
}

