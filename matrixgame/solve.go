// Package matrixgame solves two-player zero-sum matrix games: exactly
// by linear programming, and iteratively by fictitious play.
package matrixgame

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultTol bounds the disagreement allowed between the row and the
// column player's linear programs before Solve reports a
// ToleranceError. The bound is scaled by the payoff range of the game.
const DefaultTol = 1e-9

const simplexTol = 1e-10

// ErrDegenerateGame is returned when the payoff matrix has no rows or
// no columns, leaving the minimax linear program undefined.
var ErrDegenerateGame = errors.New("game has no pure strategies for one of the players")

// ToleranceError reports that a linear program failed to converge, or
// that the two players' programs disagree on the game value by more
// than the allowed tolerance. It is surfaced rather than silently
// approximated.
type ToleranceError struct {
	Gap float64
	Tol float64
	Err error
}

func (e *ToleranceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("linear program did not converge: %v", e.Err)
	}

	return fmt.Sprintf("linear programs disagree on the game value by %v (tolerance %v)", e.Gap, e.Tol)
}

func (e *ToleranceError) Unwrap() error { return e.Err }

// Solution is an optimal mixed strategy pair for a zero-sum matrix
// game. Value is the expected payoff to the row player; Row and Col
// are probability distributions over the rows and columns.
type Solution struct {
	Value float64
	Row   []float64
	Col   []float64
}

// Solve computes the minimax value and an optimal mixture for each
// player. payoffs[i][j] is the payoff to the row player when row i is
// played against column j. By the minimax theorem the underlying
// linear programs are always feasible and bounded for a non-empty
// finite matrix, so Solve fails only on degenerate or inconsistent
// input.
func Solve(payoffs [][]float64) (*Solution, error) {
	nRows := len(payoffs)
	if nRows == 0 || len(payoffs[0]) == 0 {
		return nil, errors.WithStack(ErrDegenerateGame)
	}

	nCols := len(payoffs[0])
	for i, row := range payoffs {
		if len(row) != nCols {
			return nil, errors.Errorf("row %d has %d columns, expected %d", i, len(row), nCols)
		}
	}

	// Shift all payoffs strictly positive so the game value is positive
	// and the reciprocal minimax transformation applies.
	shift := 1.0
	for _, row := range payoffs {
		for _, v := range row {
			if math.Abs(v)+1 > shift {
				shift = math.Abs(v) + 1
			}
		}
	}

	rowValue, rowMix, err := solveRowLP(payoffs, shift)
	if err != nil {
		return nil, err
	}
	colValue, colMix, err := solveColLP(payoffs, shift)
	if err != nil {
		return nil, err
	}

	gap := math.Abs(rowValue - colValue)
	tol := DefaultTol * shift
	if gap > tol {
		return nil, errors.WithStack(&ToleranceError{Gap: gap, Tol: tol})
	}

	return &Solution{
		Value: (rowValue + colValue) / 2,
		Row:   rowMix,
		Col:   colMix,
	}, nil
}

// solveRowLP maximizes the row player's guaranteed payoff: with
// A_K = payoffs + shift entrywise, max v s.t. xᵀA_K >= v·1, Σx = 1,
// x >= 0. Substituting y = x/v turns this into the standard-form
// program min Σy s.t. A_Kᵀy - s = 1, y, s >= 0, with v = 1/Σy.
func solveRowLP(payoffs [][]float64, shift float64) (float64, []float64, error) {
	nRows := len(payoffs)
	nCols := len(payoffs[0])

	data := make([]float64, nCols*(nRows+nCols))
	for j := 0; j < nCols; j++ {
		base := j * (nRows + nCols)
		for i := 0; i < nRows; i++ {
			data[base+i] = payoffs[i][j] + shift
		}
		data[base+nRows+j] = -1
	}
	A := mat.NewDense(nCols, nRows+nCols, data)

	c := make([]float64, nRows+nCols)
	for i := 0; i < nRows; i++ {
		c[i] = 1
	}

	optF, optX, err := lp.Simplex(c, A, ones(nCols), simplexTol, nil)
	if err != nil {
		return 0, nil, errors.WithStack(&ToleranceError{Err: err})
	}

	mix := make([]float64, nRows)
	for i := range mix {
		mix[i] = optX[i] / optF
	}

	return 1/optF - shift, mix, nil
}

// solveColLP minimizes the column player's worst-case loss: with the
// same shift, min v s.t. A_K z <= v·1, Σz = 1, z >= 0, rewritten as
// min -Σw s.t. A_K w + t = 1, w, t >= 0, with v = 1/Σw.
func solveColLP(payoffs [][]float64, shift float64) (float64, []float64, error) {
	nRows := len(payoffs)
	nCols := len(payoffs[0])

	data := make([]float64, nRows*(nCols+nRows))
	for i := 0; i < nRows; i++ {
		base := i * (nCols + nRows)
		for j := 0; j < nCols; j++ {
			data[base+j] = payoffs[i][j] + shift
		}
		data[base+nCols+i] = 1
	}
	A := mat.NewDense(nRows, nCols+nRows, data)

	c := make([]float64, nCols+nRows)
	for j := 0; j < nCols; j++ {
		c[j] = -1
	}

	optF, optX, err := lp.Simplex(c, A, ones(nRows), simplexTol, nil)
	if err != nil {
		return 0, nil, errors.WithStack(&ToleranceError{Err: err})
	}

	sumW := -optF
	mix := make([]float64, nCols)
	for j := range mix {
		mix[j] = optX[j] / sumW
	}

	return 1/sumW - shift, mix, nil
}

func ones(n int) []float64 {
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}

	return b
}
