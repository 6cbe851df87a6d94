package xorshift_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupmix/internal/xorshift"
)

func TestSeedIsDeterministic(t *testing.T) {
	require := require.New(t)

	a := xorshift.Seed(42)
	b := xorshift.Seed(42)
	for i := 0; i < 100; i++ {
		require.Equal(a.Next(), b.Next())
	}
}

func TestSeedDiffersAcrossSeeds(t *testing.T) {
	require := require.New(t)

	a := xorshift.Seed(1)
	b := xorshift.Seed(2)

	var same int
	for i := 0; i < 20; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	require.Less(same, 20, "two distinct seeds produced an identical stream")
}

func TestIntnRange(t *testing.T) {
	require := require.New(t)

	s := xorshift.Seed(7)
	for i := 0; i < 1000; i++ {
		v := s.Intn(5)
		require.GreaterOrEqual(v, 0)
		require.Less(v, 5)
	}
}

func TestFloat64Range(t *testing.T) {
	require := require.New(t)

	s := xorshift.Seed(99)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		require.GreaterOrEqual(v, 0.0)
		require.Less(v, 1.0)
	}
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	s := xorshift.Seed(1)
	require.Panics(t, func() { s.Intn(0) })
}
