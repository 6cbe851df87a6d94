package placement_test

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

func TestPlaceFillsEverySessionExactly(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(10, 3, 4, 2)

	maps, err := indexmap.Build(in.Problem)
	require.NoError(err)
	pre, err := constraints.Preprocess(maps, in.Constraints)
	require.NoError(err)
	s, err := state.New(maps, pre, in, 1)
	require.NoError(err)

	require.NoError(placement.Place(s))
	require.NoError(s.Validate())

	for sess := 0; sess < s.NumSessions; sess++ {
		seated := 0
		for g, members := range s.Schedule[sess] {
			require.LessOrEqual(len(members), s.GroupSize[g])
			seated += len(members)
		}
		require.Equal(maps.NumPeople(), seated)
	}
}

func TestPlaceFailsWhenCapacityTooSmall(t *testing.T) {
	in := testutil.SimpleInput(10, 2, 2, 1) // 10 people, 2 groups of 2 can only hold 4

	maps, err := indexmap.Build(in.Problem)
	require.NoError(t, err)
	pre, err := constraints.Preprocess(maps, in.Constraints)
	require.NoError(t, err)
	s, err := state.New(maps, pre, in, 1)
	require.NoError(t, err)

	err = placement.Place(s)
	require.Error(t, err)
	var failed *placement.Failed
	require.ErrorAs(t, err, &failed)
}
