package state

import "fmt"

// InternalInvariant signals that a State's running scores have drifted
// from what a full recompute would produce, or that a structural
// invariant (exact partition, clique cohesion, pin placement) was
// violated. It should never happen; seeing one means a Mutator bug.
type InternalInvariant struct {
	Msg string
}

func (e *InternalInvariant) Error() string { return "state: internal invariant violated: " + e.Msg }

// Validate checks every structural invariant: exact partition (each
// attending person seated exactly once per session), clique cohesion,
// pin placement, and running-score-vs-recompute agreement.
func (s *State) Validate() error {
	n := s.Maps.NumPeople()

	for sess := 0; sess < s.NumSessions; sess++ {
		seen := make([]bool, n)
		for g, members := range s.Schedule[sess] {
			if len(members) > s.GroupSize[g] {
				return &InternalInvariant{Msg: fmt.Sprintf("session %d group %d over capacity: %d > %d", sess, g, len(members), s.GroupSize[g])}
			}
			for _, p := range members {
				if seen[p] {
					return &InternalInvariant{Msg: fmt.Sprintf("session %d: person %d seated twice", sess, p)}
				}
				seen[p] = true
				if s.Locations[sess][p] != (Location{Group: g, Pos: indexOf(members, p)}) {
					return &InternalInvariant{Msg: fmt.Sprintf("session %d: person %d location out of sync with schedule", sess, p)}
				}
			}
		}
		for p := 0; p < n; p++ {
			attends := s.Maps.PersonSessions[p][sess]
			if attends && !seen[p] {
				return &InternalInvariant{Msg: fmt.Sprintf("session %d: attending person %d not seated", sess, p)}
			}
			if !attends && seen[p] {
				return &InternalInvariant{Msg: fmt.Sprintf("session %d: absent person %d was seated", sess, p)}
			}
		}
	}

	for _, cl := range s.Pre.Cliques {
		for sess, on := range cl.Sessions {
			if !on {
				continue
			}
			var want = -2
			for _, p := range cl.Members {
				if !s.Maps.PersonSessions[p][sess] {
					continue
				}
				g := s.Locations[sess][p].Group
				if want == -2 {
					want = g
				} else if g != want {
					return &InternalInvariant{Msg: fmt.Sprintf("session %d: clique split across groups %d and %d", sess, want, g)}
				}
			}
		}
	}

	for _, pin := range s.Pre.Pins {
		for sess, on := range pin.Sessions {
			if !on {
				continue
			}
			if g := s.Locations[sess][pin.Person].Group; g != pin.Group {
				return &InternalInvariant{Msg: fmt.Sprintf("session %d: pinned person %d is in group %d, not %d", sess, pin.Person, g, pin.Group)}
			}
		}
	}

	savedUnique, savedRep, savedAttr, savedCon := s.UniqueContacts, s.RepetitionPenalty, s.AttributeBalancePenalty, s.ConstraintPenalty
	s.Recalculate()
	recomputedUnique, recomputedRep, recomputedAttr, recomputedCon := s.UniqueContacts, s.RepetitionPenalty, s.AttributeBalancePenalty, s.ConstraintPenalty
	s.UniqueContacts, s.RepetitionPenalty, s.AttributeBalancePenalty, s.ConstraintPenalty = savedUnique, savedRep, savedAttr, savedCon

	if savedUnique != recomputedUnique || savedRep != recomputedRep || savedAttr != recomputedAttr || savedCon != recomputedCon {
		return &InternalInvariant{Msg: fmt.Sprintf(
			"running scores (%d, %.4f, %.4f, %.4f) disagree with recompute (%d, %.4f, %.4f, %.4f)",
			savedUnique, savedRep, savedAttr, savedCon, recomputedUnique, recomputedRep, recomputedAttr, recomputedCon)}
	}
	return nil
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
