package efg

import "github.com/pkg/errors"

// Evaluate returns the exact expected payoff to Player0 when the pure
// strategies s0 and s1 are played against each other: the sum over
// reachable terminal nodes of their Player0 payoff weighted by the
// product of chance probabilities along the path. The result is
// deterministic; repeated calls with identical inputs return
// bit-identical values.
func Evaluate(t *Tree, s0, s1 *PureStrategy) (float64, error) {
	if s0.player != Player0 {
		return 0, errors.Wrapf(ErrWrongPlayer, "expected a strategy for %v, got %v", Player0, s0.player)
	}
	if s1.player != Player1 {
		return 0, errors.Wrapf(ErrWrongPlayer, "expected a strategy for %v, got %v", Player1, s1.player)
	}

	return t.expectedPayoff(t.root, s0, s1)
}

func (t *Tree) expectedPayoff(id NodeID, s0, s1 *PureStrategy) (float64, error) {
	n := &t.nodes[id]
	switch n.kind {
	case Terminal:
		return n.payoffs[Player0], nil
	case Chance:
		total := 0.0
		for _, e := range n.edges {
			v, err := t.expectedPayoff(e.Child, s0, s1)
			if err != nil {
				return 0, err
			}
			total += e.Prob * v
		}
		return total, nil
	}

	s := s0
	if n.player == Player1 {
		s = s1
	}

	a, ok := s.ActionAt(n.infoSet)
	if !ok {
		return 0, errors.Wrapf(ErrIncompleteStrategy, "no action for information set %q at node %q", n.infoSet, n.id)
	}
	for _, e := range n.edges {
		if e.Action == a {
			return t.expectedPayoff(e.Child, s0, s1)
		}
	}

	return 0, errors.Errorf("action %q is not available at node %q", a, n.id)
}

// Matrix is the normal form of a game: one row per Player0 pure
// strategy, one column per Player1 pure strategy, and in each cell the
// expected payoff to Player0.
type Matrix struct {
	Rows    []PureStrategy
	Cols    []PureStrategy
	Payoffs [][]float64
}

// NormalForm derives the normal form of t by evaluating every pair of
// pure strategies. The game must be zero-sum within ProbTolerance.
func NormalForm(t *Tree) (*Matrix, error) {
	if !t.IsZeroSum(ProbTolerance) {
		return nil, errors.WithStack(ErrNotZeroSum)
	}

	rows, err := Enumerate(t, Player0)
	if err != nil {
		return nil, err
	}
	cols, err := Enumerate(t, Player1)
	if err != nil {
		return nil, err
	}
	payoffs := make([][]float64, len(rows))
	for i := range rows {
		payoffs[i] = make([]float64, len(cols))
		for j := range cols {
			v, err := Evaluate(t, &rows[i], &cols[j])
			if err != nil {
				return nil, err
			}
			payoffs[i][j] = v
		}
	}

	return &Matrix{Rows: rows, Cols: cols, Payoffs: payoffs}, nil
}
