package efg

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/efg/matrixgame"
)

// Solution is an equilibrium of a two-player zero-sum game: the game
// value to Player0 and an optimal mixed strategy for each player.
// When the optimum is not unique any optimal strategy pair may be
// returned; the value is unique up to numeric tolerance.
type Solution struct {
	Value     float64
	Strategy0 MixedStrategy
	Strategy1 MixedStrategy
}

// Solve computes the minimax value and an optimal mixed strategy pair
// for t by linear programming over its normal form.
func Solve(t *Tree) (*Solution, error) {
	m, err := NormalForm(t)
	if err != nil {
		return nil, err
	}

	sol, err := matrixgame.Solve(m.Payoffs)
	if err != nil {
		return nil, errors.Wrapf(err, "solving %dx%d normal form", len(m.Rows), len(m.Cols))
	}

	return &Solution{
		Value:     sol.Value,
		Strategy0: MixedStrategy{Pure: m.Rows, Weights: sol.Row},
		Strategy1: MixedStrategy{Pure: m.Cols, Weights: sol.Col},
	}, nil
}
