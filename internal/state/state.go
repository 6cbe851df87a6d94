// Package state holds the integer-indexed schedule, the running score
// components, and the mutator/delta-evaluator operations that keep them
// in sync without a full recompute on every move.
package state

import (
	"fmt"

	"groupmix/internal/constraints"
	"groupmix/internal/indexmap"
	"groupmix/internal/problem"
	"groupmix/internal/xorshift"
)

// Location is where a person sits within one session: which group, and
// their position within that group's member slice (kept so a swap can
// overwrite in place instead of searching).
type Location struct {
	Group int
	Pos   int
}

// AttributeBalanceConstraint targets a desired per-value distribution of
// one attribute within a group (or every group, when GroupIdx is -1).
type AttributeBalanceConstraint struct {
	GroupIdx      int // -1 means "every group"
	AttrKey       int
	Desired       map[int]int // value idx -> desired count
	PenaltyWeight float64
}

// RepeatEncounterConfig shapes the repetition penalty. See DESIGN.md for
// the generalization of the threshold and the linear penalty shape.
type RepeatEncounterConfig struct {
	MaxAllowedEncounters int
	Linear               bool
}

// State is one schedule plus everything needed to score and mutate it
// incrementally.
type State struct {
	Maps *indexmap.Maps
	Pre  *constraints.Preprocessed

	NumSessions int
	GroupSize   []int

	// Schedule[session][group] is the list of person indices seated
	// there.
	Schedule [][][]int
	// Locations[session][person] locates a person within Schedule.
	// Absent people (not attending that session) have Group == -1.
	Locations [][]Location

	// Contacts is symmetric with a zero diagonal: Contacts[p][q] counts
	// how many sessions p and q have shared a group.
	Contacts [][]uint32

	WContacts   float64
	WRepetition float64
	WAttribute  float64

	RepeatEncounter RepeatEncounterConfig
	AttrConstraints []AttributeBalanceConstraint

	UniqueContacts          int
	RepetitionPenalty       float64
	AttributeBalancePenalty float64
	ConstraintPenalty       float64

	RNG *xorshift.State
}

// New builds an empty State (no placement yet) from a preprocessed
// problem: index maps, clique/forbidden-pair/pin data, objective
// weights, and constraint configuration. Call a placement routine to
// fill Schedule, then Finalize to compute Locations and the running
// scores.
func New(maps *indexmap.Maps, pre *constraints.Preprocessed, in problem.Input, seed uint64) (*State, error) {
	s := &State{
		Maps:        maps,
		Pre:         pre,
		NumSessions: maps.NumSessions,
		GroupSize:   maps.GroupSize,
		RNG:         xorshift.Seed(seed),
	}

	for _, o := range in.Objectives {
		switch o.Type {
		case "maximize_unique_contacts":
			s.WContacts = o.Weight
		case "minimize_repetition_penalty":
			s.WRepetition = o.Weight
		}
	}

	s.RepeatEncounter = RepeatEncounterConfig{MaxAllowedEncounters: 1}
	for _, c := range in.Constraints {
		switch c.Kind {
		case problem.ConstraintRepeatEncounter:
			p := c.RepeatEncounter
			if p.MaxAllowedEncounters > 0 {
				s.RepeatEncounter.MaxAllowedEncounters = p.MaxAllowedEncounters
			}
			s.RepeatEncounter.Linear = p.PenaltyFunction == "linear"
		case problem.ConstraintAttributeBalance:
			p := c.AttributeBalance
			groupIdx := -1
			if p.GroupID != "" && p.GroupID != "ALL" {
				gi, err := maps.GroupIdx(p.GroupID)
				if err != nil {
					return nil, fmt.Errorf("state: AttributeBalance: %w", err)
				}
				groupIdx = gi
			}
			keyIdx, err := maps.AttrKeyIdx(p.AttributeKey)
			if err != nil {
				return nil, fmt.Errorf("state: AttributeBalance: %w", err)
			}
			desired := make(map[int]int, len(p.DesiredValues))
			for val, count := range p.DesiredValues {
				vi, ok := maps.AttrValToIdx[keyIdx][val]
				if !ok {
					// A desired value nobody in the problem carries can
					// never be matched; record it anyway so the penalty
					// counts every missing slot instead of silently
					// ignoring the constraint.
					vi = -1 - len(desired)
				}
				desired[vi] = count
			}
			s.WAttribute = p.PenaltyWeight
			s.AttrConstraints = append(s.AttrConstraints, AttributeBalanceConstraint{
				GroupIdx: groupIdx, AttrKey: keyIdx, Desired: desired, PenaltyWeight: p.PenaltyWeight,
			})
		}
	}

	n := maps.NumPeople()
	s.Contacts = make([][]uint32, n)
	for i := range s.Contacts {
		s.Contacts[i] = make([]uint32, n)
	}

	s.Schedule = make([][][]int, s.NumSessions)
	for sess := range s.Schedule {
		s.Schedule[sess] = make([][]int, maps.NumGroups())
	}
	s.Locations = make([][]Location, s.NumSessions)
	for sess := range s.Locations {
		row := make([]Location, n)
		for p := range row {
			row[p] = Location{Group: -1, Pos: -1}
		}
		s.Locations[sess] = row
	}

	return s, nil
}

// Clone deep-copies the mutable schedule/score state so an optimizer can
// branch a search from a shared starting point. The index maps,
// preprocessed constraints and attribute constraints are structural and
// are shared by reference. The RNG state is copied: the clone draws the
// same sequence as the original, but independently of it.
func (s *State) Clone() *State {
	c := &State{
		Maps: s.Maps, Pre: s.Pre,
		NumSessions: s.NumSessions, GroupSize: s.GroupSize,
		WContacts: s.WContacts, WRepetition: s.WRepetition, WAttribute: s.WAttribute,
		RepeatEncounter: s.RepeatEncounter, AttrConstraints: s.AttrConstraints,
		UniqueContacts: s.UniqueContacts, RepetitionPenalty: s.RepetitionPenalty,
		AttributeBalancePenalty: s.AttributeBalancePenalty, ConstraintPenalty: s.ConstraintPenalty,
	}
	rngCopy := *s.RNG
	c.RNG = &rngCopy

	c.Schedule = make([][][]int, len(s.Schedule))
	for sess, groups := range s.Schedule {
		c.Schedule[sess] = make([][]int, len(groups))
		for g, members := range groups {
			c.Schedule[sess][g] = append([]int(nil), members...)
		}
	}
	c.Locations = make([][]Location, len(s.Locations))
	for sess, row := range s.Locations {
		c.Locations[sess] = append([]Location(nil), row...)
	}
	c.Contacts = make([][]uint32, len(s.Contacts))
	for p, row := range s.Contacts {
		c.Contacts[p] = append([]uint32(nil), row...)
	}
	return c
}

// RecalcLocations rebuilds Locations from Schedule for every session.
func (s *State) RecalcLocations() {
	n := s.Maps.NumPeople()
	for sess := range s.Schedule {
		row := s.Locations[sess]
		for p := 0; p < n; p++ {
			row[p] = Location{Group: -1, Pos: -1}
		}
		for g, members := range s.Schedule[sess] {
			for pos, p := range members {
				row[p] = Location{Group: g, Pos: pos}
			}
		}
	}
}

// RecalcLocationsForSessionGroups rebuilds Locations only for the named
// groups in one session. ApplyMultiSwap does not use it: exchangeGroups
// keeps Locations in step as it moves people.
func (s *State) RecalcLocationsForSessionGroups(sess int, groups ...int) {
	row := s.Locations[sess]
	for _, g := range groups {
		for pos, p := range s.Schedule[sess][g] {
			row[p] = Location{Group: g, Pos: pos}
		}
	}
}

// Finalize computes Locations and the running scores from a freshly
// placed Schedule. Call once after initial placement.
func (s *State) Finalize() {
	s.RecalcLocations()
	s.Recalculate()
}

// Weighted returns the single scalar cost the Annealer minimizes: lower
// is better. cost = -w_contacts*unique + w_rep*repetition +
// w_attr*attribute + constraint, where the constraint penalty already
// carries each violation's own weight (see DESIGN.md), so no additional
// global weight multiplies it.
func (s *State) Weighted() float64 {
	return -s.WContacts*float64(s.UniqueContacts) +
		s.WRepetition*s.RepetitionPenalty +
		s.WAttribute*s.AttributeBalancePenalty +
		s.ConstraintPenalty
}
