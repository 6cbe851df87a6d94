package bench_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/anneal"
	"groupmix/internal/bench"
	"groupmix/internal/opt"
	"groupmix/internal/testutil"
)

func TestRunCaseAggregatesStats(t *testing.T) {
	require := require.New(t)
	in := testutil.SimpleInput(12, 3, 4, 2)

	algo := bench.Algorithm{
		Name: "SA",
		Factory: func(seed int64) opt.Optimizer {
			cfg := anneal.DefaultConfig()
			cfg.MaxIterations = 200
			solver, _ := anneal.New(cfg)
			return solver
		},
	}

	runner := bench.Runner{Runs: 4, BaseSeed: 10, Concurrency: 2}
	rec, err := runner.RunCase(context.Background(), in, algo)
	require.NoError(err)
	require.Equal(4, rec.Runs)
	require.Equal("SA", rec.Algo)
	require.LessOrEqual(rec.ScoreBest, rec.ScoreMean)
}
