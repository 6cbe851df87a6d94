package anneal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextTemperatureReachesFinalTempExactlyAtMaxIterations(t *testing.T) {
	require := require.New(t)
	cfg := DefaultConfig()
	cfg.MaxIterations = 2000

	T := cfg.InitialTemp
	for i := 1; i <= cfg.MaxIterations; i++ {
		T = nextTemperature(cfg, T, i)
	}
	require.InDelta(cfg.FinalTemp, T, 1e-9)
}

func TestNextTemperatureIsMonotonicallyDecreasing(t *testing.T) {
	require := require.New(t)
	cfg := DefaultConfig()
	cfg.MaxIterations = 500

	T := cfg.InitialTemp
	for i := 1; i <= cfg.MaxIterations; i++ {
		next := nextTemperature(cfg, T, i)
		require.LessOrEqual(next, T)
		T = next
	}
}

func TestNextTemperatureFallsBackToAlphaWhenIterationsUnbounded(t *testing.T) {
	require := require.New(t)
	cfg := DefaultConfig()
	cfg.MaxIterations = 0
	cfg.TimeLimit = 1

	got := nextTemperature(cfg, cfg.InitialTemp, 1)
	require.InDelta(cfg.InitialTemp*cfg.Alpha, got, 1e-9)
	require.False(math.IsNaN(got))
}
