package blackwell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/blackwell"
	"github.com/timpalpant/efg/minimax"
)

func TestGamesAreZeroSum(t *testing.T) {
	addition, err := blackwell.Addition(2, 4)
	require.NoError(t, err)

	for name, tree := range map[string]*efg.Tree{
		"dollar":   blackwell.Dollar(),
		"parity":   blackwell.Parity(),
		"addition": addition,
	} {
		assert.True(t, tree.IsZeroSum(1e-9), "%v should be zero sum", name)
	}
}

func TestDollar_Evaluate(t *testing.T) {
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

	v, err := efg.Evaluate(tree, s0, s1)
	require.NoError(t, err)
	// 0.4*9 + 0.2*8 + 0.4*7.
	assert.InDelta(t, 8.0, v, 1e-9)
}

func TestDollar_Solve(t *testing.T) {
	tree := blackwell.Dollar()

	sol, err := efg.Solve(tree)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, sol.Value, 1e-6)

	// Player0's unique equilibrium strategy picks 2 and calls Tail;
	// Player1 always replies 3.
	support0 := sol.Strategy0.Support()
	require.Len(t, support0, 1)
	best0 := sol.Strategy0.Pure[support0[0]]
	assert.Equal(t, map[string]efg.Action{"pick": "2", "call": "Tail"}, best0.Map())

	support1 := sol.Strategy1.Support()
	require.Len(t, support1, 1)
	best1 := sol.Strategy1.Pure[support1[0]]
	assert.Equal(t, map[string]efg.Action{"reply": "3"}, best1.Map())
}

func enumerate(t *testing.T, tree *efg.Tree, p efg.Player) []efg.PureStrategy {
	t.Helper()
	strategies, err := efg.Enumerate(tree, p)
	require.NoError(t, err)

	return strategies
}

func TestParity_Enumerate(t *testing.T) {
	tree := blackwell.Parity()

	assert.Len(t, enumerate(t, tree, efg.Player0), 2)
	assert.Len(t, enumerate(t, tree, efg.Player1), 4)
}

func TestDollar_Enumerate(t *testing.T) {
	tree := blackwell.Dollar()

	// Two picks times two calls.
	assert.Len(t, enumerate(t, tree, efg.Player0), 4)
	assert.Len(t, enumerate(t, tree, efg.Player1), 2)
}

func TestParity_Evaluate(t *testing.T) {
	tree := blackwell.Parity()

	s0, err := efg.NewPureStrategy(tree, efg.Player0, map[string]efg.Action{
		"i": "0",
	})
	require.NoError(t, err)
	s1, err := efg.NewPureStrategy(tree, efg.Player1, map[string]efg.Action{
		"H0": "1", "H1": "0",
	})
	require.NoError(t, err)

	v, err := efg.Evaluate(tree, s0, s1)
	require.NoError(t, err)
	// Player1 guesses i+j+k == 1 on both coin outcomes.
	assert.InDelta(t, -1.0, v, 1e-9)
}

func TestParity_Solve(t *testing.T) {
	sol, err := efg.Solve(blackwell.Parity())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sol.Value, 1e-6)
}

func TestAddition_StrategyCount(t *testing.T) {
	tree, err := blackwell.Addition(2, 4)
	require.NoError(t, err)

	// Player0 moves at six reachable sums, each with two choices.
	assert.Len(t, enumerate(t, tree, efg.Player0), 64)
}

func TestAddition_EnumerateTooLarge(t *testing.T) {
	// At n=10 Player0 has over a hundred information sets; enumeration
	// must refuse cleanly rather than attempt 2^100+ strategies.
	tree, err := blackwell.Addition(2, 10)
	require.NoError(t, err)

	_, err = efg.Enumerate(tree, efg.Player0)
	assert.ErrorIs(t, err, efg.ErrTooManyStrategies)

	// The perfect-information solver still handles it.
	res, err := minimax.Solve(tree)
	require.NoError(t, err)
	assert.InDelta(t, blackwell.AdditionValue(2, 10), res.Value, 1e-12)
}

func TestAddition_SolveMatchesOracle(t *testing.T) {
	for k := 1; k <= 2; k++ {
		for n := 1; n <= 5; n++ {
			tree, err := blackwell.Addition(k, n)
			require.NoError(t, err)

			sol, err := efg.Solve(tree)
			require.NoError(t, err)
			assert.InDelta(t, blackwell.AdditionValue(k, n), sol.Value, 1e-6,
				"addition(%d, %d)", k, n)
		}
	}
}

func TestAddition_BadParams(t *testing.T) {
	_, err := blackwell.Addition(0, 5)
	assert.Error(t, err)
	_, err = blackwell.Addition(2, 0)
	assert.Error(t, err)
}
