package genetic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/constraints"
	"groupmix/internal/indexmap"
	"groupmix/internal/placement"
	"groupmix/internal/state"
	"groupmix/internal/testutil"
)

func buildPlacedStateForMutation(t *testing.T, seed uint64) *state.State {
	t.Helper()
	in := testutil.SimpleInput(16, 4, 4, 4)
	maps, err := indexmap.Build(in.Problem)
	require.NoError(t, err)
	pre, err := constraints.Preprocess(maps, in.Constraints)
	require.NoError(t, err)
	s, err := state.New(maps, pre, in, seed)
	require.NoError(t, err)
	require.NoError(t, placement.Place(s))
	return s
}

func TestMutateLeavesRunningScoreConsistentAfterRecalculate(t *testing.T) {
	require := require.New(t)

	sawMutation := false
	for seed := uint64(0); seed < 20; seed++ {
		s := buildPlacedStateForMutation(t, seed)

		if mutate(s, 1.0) {
			sawMutation = true
			// mutate bypasses the incremental score path; Validate must
			// fail until Recalculate catches the running score up.
			require.Error(s.Validate())
			s.Recalculate()
			require.NoError(s.Validate())
		}
	}
	require.True(sawMutation, "expected at least one mutation across 20 seeds at rate 1.0")
}
