package anneal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/anneal"
	"groupmix/internal/constraints"
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

	cfg := anneal.DefaultConfig()
	cfg.MaxIterations = 2000
	solver, err := anneal.New(cfg)
	require.NoError(err)

	res, err := solver.Solve(context.Background(), start)
	require.NoError(err)
	require.LessOrEqual(res.FinalScore, initial)
	require.NoError(res.Best.Validate())
	require.Equal(opt.IterationsExhausted, res.Termination)
}

func TestSolveIsDeterministicGivenSeed(t *testing.T) {
	require := require.New(t)
	cfg := anneal.DefaultConfig()
	cfg.MaxIterations = 500

	a, err := anneal.New(cfg)
	require.NoError(err)
	b, err := anneal.New(cfg)
	require.NoError(err)

	resA, err := a.Solve(context.Background(), buildPlacedState(t, 7))
	require.NoError(err)
	resB, err := b.Solve(context.Background(), buildPlacedState(t, 7))
	require.NoError(err)

	require.Equal(resA.FinalScore, resB.FinalScore)
}

func TestSolveRespectsCancellation(t *testing.T) {
	require := require.New(t)
	start := buildPlacedState(t, 3)

	cfg := anneal.DefaultConfig()
	cfg.MaxIterations = 10_000_000
	solver, err := anneal.New(cfg)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := solver.Solve(ctx, start)
	require.NoError(err)
	require.Equal(opt.Cancelled, res.Termination)
}
