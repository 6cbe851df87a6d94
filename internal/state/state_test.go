package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/constraints"
	"groupmix/internal/indexmap"
	"groupmix/internal/placement"
	"groupmix/internal/problem"
	"groupmix/internal/state"
	"groupmix/internal/testutil"
)

func buildPlacedState(t *testing.T, in problem.Input, seed uint64) *state.State {
	t.Helper()
	maps, err := indexmap.Build(in.Problem)
	require.NoError(t, err)
	pre, err := constraints.Preprocess(maps, in.Constraints)
	require.NoError(t, err)
	s, err := state.New(maps, pre, in, seed)
	require.NoError(t, err)
	require.NoError(t, placement.Place(s))
	return s
}

func TestPlacementProducesValidState(t *testing.T) {
	in := testutil.SimpleInput(12, 4, 3, 3)
	s := buildPlacedState(t, in, 1)
	require.NoError(t, s.Validate())
}

func TestPlacementIsDeterministicGivenSeed(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(12, 4, 3, 3)

	a := buildPlacedState(t, in, 42)
	b := buildPlacedState(t, in, 42)

	require.Equal(a.Schedule, b.Schedule)
	require.Equal(a.Weighted(), b.Weighted())
}

func TestContactsMatrixIsSymmetric(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(12, 4, 3, 3)
	s := buildPlacedState(t, in, 7)

	n := len(s.Contacts)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.Equal(s.Contacts[i][j], s.Contacts[j][i], "contacts[%d][%d] != contacts[%d][%d]", i, j, j, i)
		}
		require.Zero(s.Contacts[i][i], "diagonal must be zero")
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(8, 2, 4, 2)
	s := buildPlacedState(t, in, 5)

	c := s.Clone()
	require.Equal(s.Schedule, c.Schedule)
	require.Equal(s.Weighted(), c.Weighted())

	originalFirstGroup := append([]int(nil), s.Schedule[0][0]...)
	c.Schedule[0][0][0], c.Schedule[0][0][len(c.Schedule[0][0])-1] = c.Schedule[0][0][len(c.Schedule[0][0])-1], c.Schedule[0][0][0]
	require.Equal(originalFirstGroup, s.Schedule[0][0], "mutating the clone must not affect the original")
}

func TestHonorsMustStayTogetherAndImmovablePerson(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(12, 4, 3, 3)
	in.Constraints = []problem.Constraint{
		{Kind: problem.ConstraintMustStayTogether, MustStayTogether: &problem.GroupingParams{
			People: []string{"p0", "p1", "p2"}, PenaltyWeight: 500,
		}},
		{Kind: problem.ConstraintImmovablePerson, ImmovablePerson: &problem.ImmovablePersonParams{
			PersonID: "p3", GroupID: "g0", Sessions: []int{0, 1, 2},
		}},
	}

	s := buildPlacedState(t, in, 123)
	require.NoError(s.Validate())

	p3, err := s.Maps.PersonIdx("p3")
	require.NoError(err)
	for sess := 0; sess < s.NumSessions; sess++ {
		require.Equal(0, s.Locations[sess][p3].Group)
	}
}
