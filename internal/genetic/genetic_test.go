package genetic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/constraints"
	"groupmix/internal/genetic"
	"groupmix/internal/indexmap"
	"groupmix/internal/opt"
	"groupmix/internal/placement"
	"groupmix/internal/state"
	"groupmix/internal/testutil"
)

func buildPlacedState(t *testing.T, seed uint64) *state.State {
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

func TestSolveNeverWorsensTheBest(t *testing.T) {
	require := require.New(t)
	start := buildPlacedState(t, 1)
	initial := start.Weighted()

	cfg := genetic.DefaultConfig()
	cfg.Population = 20
	cfg.Generations = 15
	solver, err := genetic.New(cfg)
	require.NoError(err)

	res, err := solver.Solve(context.Background(), start)
	require.NoError(err)
	require.LessOrEqual(res.FinalScore, initial)
	require.NoError(res.Best.Validate())
}

func TestSolveRespectsCancellation(t *testing.T) {
	require := require.New(t)
	start := buildPlacedState(t, 3)

	cfg := genetic.DefaultConfig()
	cfg.Population = 10
	cfg.Generations = 1_000_000
	solver, err := genetic.New(cfg)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := solver.Solve(ctx, start)
	require.NoError(err)
	require.Equal(opt.Cancelled, res.Termination)
}
