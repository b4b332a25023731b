package montecarlo_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/blackwell"
	"github.com/timpalpant/efg/montecarlo"
)

func dollarPurePair(t *testing.T) (*efg.Tree, *efg.PureStrategy, *efg.PureStrategy) {
	t.Helper()
	tree := blackwell.Dollar()
	s0, err := efg.NewPureStrategy(tree, efg.Player0, map[string]efg.Action{
		"pick": "2",
		"call": "Tail",
	})
	require.NoError(t, err)
	s1, err := efg.NewPureStrategy(tree, efg.Player1, map[string]efg.Action{
		"reply": "4",
	})
	require.NoError(t, err)

	return tree, s0, s1
}

func TestPlayout(t *testing.T) {
	tree, s0, s1 := dollarPurePair(t)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		v, err := montecarlo.Playout(tree, s0, s1, rng)
		require.NoError(t, err)
		// Pot is 2+4+bonus with bonus in {3, 2, 1}, won on Tail.
		assert.Contains(t, []float64{9, 8, 7}, v)
	}
}

func TestSimulator_DollarPurePair(t *testing.T) {
	tree, s0, s1 := dollarPurePair(t)

	sim := &montecarlo.Simulator{
		Tree:      tree,
		Strategy0: efg.MixedStrategy{Pure: []efg.PureStrategy{*s0}, Weights: []float64{1}},
		Strategy1: efg.MixedStrategy{Pure: []efg.PureStrategy{*s1}, Weights: []float64{1}},
		Seed:      17,
		Workers:   1,
	}

	result, err := sim.Run(context.Background(), 20000)
	require.NoError(t, err)

	assert.Equal(t, 20000, result.Iterations)
	// Exact expectation is 0.4*9 + 0.2*8 + 0.4*7 = 8.
	lo, hi := result.ConfidenceInterval(99)
	assert.LessOrEqual(t, lo, 8.0)
	assert.GreaterOrEqual(t, hi, 8.0)
	assert.InDelta(t, 8.0, result.Mean, 0.1)
}

func TestSimulator_ParityEquilibrium(t *testing.T) {
	tree := blackwell.Parity()
	sol, err := efg.Solve(tree)
	require.NoError(t, err)

	sim := &montecarlo.Simulator{
		Tree:      tree,
		Strategy0: sol.Strategy0,
		Strategy1: sol.Strategy1,
		Seed:      23,
		Workers:   1,
	}

	result, err := sim.Run(context.Background(), 50000)
	require.NoError(t, err)

	// The game is fair at equilibrium.
	assert.InDelta(t, 0, result.Mean, 5*result.StdErr+1e-9)
}

func TestSimulator_Reproducible(t *testing.T) {
	tree, s0, s1 := dollarPurePair(t)
	mixed0 := efg.MixedStrategy{Pure: []efg.PureStrategy{*s0}, Weights: []float64{1}}
	mixed1 := efg.MixedStrategy{Pure: []efg.PureStrategy{*s1}, Weights: []float64{1}}

	run := func() float64 {
		sim := &montecarlo.Simulator{
			Tree:      tree,
			Strategy0: mixed0,
			Strategy1: mixed1,
			Seed:      99,
			Workers:   1,
		}
		result, err := sim.Run(context.Background(), 1000)
		require.NoError(t, err)
		return result.Mean
	}

	first := run()
	second := run()
	assert.Equal(t, math.Float64bits(first), math.Float64bits(second))
}

func TestSimulator_Cancelled(t *testing.T) {
	tree, s0, s1 := dollarPurePair(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := &montecarlo.Simulator{
		Tree:      tree,
		Strategy0: efg.MixedStrategy{Pure: []efg.PureStrategy{*s0}, Weights: []float64{1}},
		Strategy1: efg.MixedStrategy{Pure: []efg.PureStrategy{*s1}, Weights: []float64{1}},
		Workers:   2,
	}

	_, err := sim.Run(ctx, 1000000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_EmptyMixture(t *testing.T) {
	sim := &montecarlo.Simulator{Tree: blackwell.Parity()}
	_, err := sim.Run(context.Background(), 100)
	assert.Error(t, err)
}

func TestSimulator_ZeroIterations(t *testing.T) {
	tree, s0, s1 := dollarPurePair(t)
	sim := &montecarlo.Simulator{
		Tree:      tree,
		Strategy0: efg.MixedStrategy{Pure: []efg.PureStrategy{*s0}, Weights: []float64{1}},
		Strategy1: efg.MixedStrategy{Pure: []efg.PureStrategy{*s1}, Weights: []float64{1}},
	}

	result, err := sim.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Iterations)
}
