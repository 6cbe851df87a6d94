// Package testutil builds small, hand-checkable problem.Input fixtures
// shared by the core packages' tests, rather than duplicated per package.
package testutil

import (
	"strconv"

	"groupmix/internal/problem"
)

// SimpleInput returns a fixture of numPeople people with a "team"
// attribute alternating "a"/"b", numGroups groups of groupSize each,
// and numSessions sessions. Every person attends every session. Both
// objectives are weighted. It places nobody and checks nothing: the
// fixture is feasible only when numGroups*groupSize >= numPeople.
func SimpleInput(numPeople, numGroups, groupSize, numSessions int) problem.Input {
	in := problem.Input{
		Problem: problem.Definition{
			NumSessions: numSessions,
		},
		Objectives: []problem.Objective{
			{Type: "maximize_unique_contacts", Weight: 1.0},
			{Type: "minimize_repetition_penalty", Weight: 5.0},
		},
	}
	for i := 0; i < numPeople; i++ {
		team := "a"
		if i%2 == 1 {
			team = "b"
		}
		in.Problem.People = append(in.Problem.People, problem.Person{
			ID:         personID(i),
			Attributes: map[string]string{"team": team},
		})
	}
	for g := 0; g < numGroups; g++ {
		in.Problem.Groups = append(in.Problem.Groups, problem.Group{
			ID:   groupID(g),
			Size: groupSize,
		})
	}
	return in
}

func personID(i int) string { return "p" + strconv.Itoa(i) }
func groupID(i int) string  { return "g" + strconv.Itoa(i) }
