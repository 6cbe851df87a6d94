package state

// Recalculate performs the full O(S*G*k^2 + P^2) score recompute: it
// rebuilds the contact matrix from Schedule from scratch, then derives
// all four running score components from it. Used for initial placement
// and by Validate to check the incremental path hasn't drifted.
func (s *State) Recalculate() {
	n := len(s.Contacts)
	for i := 0; i < n; i++ {
		for j := range s.Contacts[i] {
			s.Contacts[i][j] = 0
		}
	}

	for sess := range s.Schedule {
		for _, members := range s.Schedule[sess] {
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					p, q := members[i], members[j]
					s.Contacts[p][q]++
					s.Contacts[q][p]++
				}
			}
		}
	}

	unique := 0
	var repetition float64
	for p := 0; p < n; p++ {
		for q := p + 1; q < n; q++ {
			c := s.Contacts[p][q]
			if c == 0 {
				continue
			}
			unique++
			repetition += s.repetitionPenaltyOf(c)
		}
	}
	s.UniqueContacts = unique
	s.RepetitionPenalty = repetition

	var attr float64
	for sess := range s.Schedule {
		for g := range s.Schedule[sess] {
			attr += s.attributeBalancePenaltyForGroup(sess, g)
		}
	}
	s.AttributeBalancePenalty = attr

	var constraintPenalty float64
	for _, fp := range s.Pre.ForbiddenPairs {
		for sess, on := range fp.Sessions {
			if !on {
				continue
			}
			l1, l2 := s.Locations[sess][fp.P1], s.Locations[sess][fp.P2]
			if l1.Group != -1 && l1.Group == l2.Group {
				constraintPenalty += fp.PenaltyWeight
			}
		}
	}
	s.ConstraintPenalty = constraintPenalty
}

// repetitionPenaltyOf shapes the penalty for a pair that has shared a
// group c times. See DESIGN.md for the max_allowed_encounters
// generalization and the linear penalty_function.
func (s *State) repetitionPenaltyOf(c uint32) float64 {
	max := s.RepeatEncounter.MaxAllowedEncounters
	diff := int(c) - max
	if diff <= 0 {
		return 0
	}
	if s.RepeatEncounter.Linear {
		return float64(diff)
	}
	return float64(diff * diff)
}

func (s *State) attributeBalancePenaltyForGroup(sess, g int) float64 {
	if len(s.AttrConstraints) == 0 {
		return 0
	}
	var total float64
	for _, ac := range s.AttrConstraints {
		if ac.GroupIdx != -1 && ac.GroupIdx != g {
			continue
		}
		counts := make(map[int]int, len(ac.Desired))
		for _, p := range s.Schedule[sess][g] {
			v := s.Maps.PersonAttrs[p][ac.AttrKey]
			if v == -1 {
				continue
			}
			counts[v]++
		}
		for val, desired := range ac.Desired {
			diff := counts[val] - desired
			total += float64(diff * diff)
		}
	}
	return total
}
