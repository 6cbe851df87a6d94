package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/problem"
	"groupmix/internal/state"
	"groupmix/internal/testutil"
)

// findSwappablePair locates two people in different groups of sess who
// are eligible for a plain pair swap.
func findSwappablePair(t *testing.T, s *state.State, sess int) (int, int) {
	t.Helper()
	n := s.Maps.NumPeople()
	for p1 := 0; p1 < n; p1++ {
		for p2 := p1 + 1; p2 < n; p2++ {
			if s.CanPairSwap(sess, p1, p2) {
				return p1, p2
			}
		}
	}
	t.Fatal("no swappable pair found in fixture")
	return 0, 0
}

func TestPairSwapDeltaMatchesApplyAndRecompute(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(12, 4, 3, 3)
	s := buildPlacedState(t, in, 99)

	sess := 0
	p1, p2 := findSwappablePair(t, s, sess)

	before := s.Weighted()
	d := s.PairSwapDelta(sess, p1, p2)
	s.ApplyPairSwap(sess, p1, p2, d)
	after := s.Weighted()

	require.InDelta(after-before, d.Weighted(s), 1e-9)
	require.NoError(s.Validate(), "applying the priced delta must leave the state internally consistent")
}

func TestMultiSwapDeltaMatchesApplyAndRecompute(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(12, 4, 3, 3)
	in.Constraints = []problem.Constraint{
		{Kind: problem.ConstraintMustStayTogether, MustStayTogether: &problem.GroupingParams{
			People: []string{"p0", "p1"}, PenaltyWeight: 200,
		}},
	}
	s := buildPlacedState(t, in, 17)

	p0, err := s.Maps.PersonIdx("p0")
	require.NoError(err)
	p1, err := s.Maps.PersonIdx("p1")
	require.NoError(err)

	sess := 0
	groupA := s.Locations[sess][p0].Group
	require.Equal(groupA, s.Locations[sess][p1].Group, "clique members must share a group")

	// Pick a different group with >=2 occupants to swap the clique into.
	var groupB int
	var moversB []int
	for g, members := range s.Schedule[sess] {
		if g == groupA {
			continue
		}
		if len(members) >= 2 {
			groupB = g
			moversB = append([]int(nil), members[:2]...)
			break
		}
	}
	require.NotEmpty(moversB, "fixture must have a candidate group to swap with")

	moversA := []int{p0, p1}
	before := s.Weighted()
	d := s.MultiSwapDelta(sess, groupA, groupB, moversA, moversB)
	s.ApplyMultiSwap(sess, groupA, groupB, moversA, moversB, d)
	after := s.Weighted()

	require.InDelta(after-before, d.Weighted(s), 1e-9)
	require.NoError(s.Validate())
}

func TestValidateCatchesCorruptedRunningScore(t *testing.T) {
	in := testutil.SimpleInput(6, 2, 3, 1)
	s := buildPlacedState(t, in, 3)

	s.UniqueContacts += 1 // corrupt the running total directly
	err := s.Validate()
	require.Error(t, err)
	var invariant *state.InternalInvariant
	require.ErrorAs(t, err, &invariant)
}
