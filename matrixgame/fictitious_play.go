package matrixgame

import (
	"math"
	"math/rand"

	"github.com/golang/glog"
)

// FictitiousPlay estimates an equilibrium of a zero-sum matrix game by
// iterated best response to the opponent's empirical play, with an
// epsilon of uniform exploration controlled by mixingLambda. It
// converges to the game value in the limit and serves as an iterative
// cross-check of the exact LP solution.
func FictitiousPlay(payoffs [][]float64, nIter int, mixingLambda float64, rng *rand.Rand) ([]float64, []float64) {
	rowPlayCounts := make([]float64, len(payoffs))
	colPlayCounts := make([]float64, len(payoffs[0]))
	logEvery := nIter / 10
	if logEvery == 0 {
		logEvery = 1
	}

	for i := 1; i <= nIter; i++ {
		var rowSelected int
		if rng.Float64() < mixingLambda {
			rowSelected = rng.Intn(len(rowPlayCounts))
		} else {
			rowSelected = rowBestResponse(payoffs, colPlayCounts, rng)
		}

		var colSelected int
		if rng.Float64() < mixingLambda {
			colSelected = rng.Intn(len(colPlayCounts))
		} else {
			colSelected = colBestResponse(payoffs, rowPlayCounts, rng)
		}

		rowPlayCounts[rowSelected] += 1
		colPlayCounts[colSelected] += 1

		if i%logEvery == 0 {
			glog.Infof("After %d iterations, row player weights: %v", i, normalize(rowPlayCounts))
			glog.Infof("After %d iterations, column player weights: %v", i, normalize(colPlayCounts))
		}
	}

	return normalize(rowPlayCounts), normalize(colPlayCounts)
}

// RowBestResponse returns the row maximizing expected payoff against
// the given (not necessarily normalized) column weights. Ties break
// toward the lowest index.
func RowBestResponse(payoffs [][]float64, colWeights []float64) int {
	return rowBestResponse(payoffs, colWeights, nil)
}

// ColBestResponse returns the column minimizing the row player's
// expected payoff against the given row weights. Ties break toward the
// lowest index.
func ColBestResponse(payoffs [][]float64, rowWeights []float64) int {
	return colBestResponse(payoffs, rowWeights, nil)
}

// Exploitability is the total gain available to the two players by
// deviating from the given mixtures to a best response. It is zero,
// within tolerance, exactly when (row, col) is an equilibrium.
func Exploitability(payoffs [][]float64, row, col []float64) float64 {
	br0 := RowBestResponse(payoffs, col)
	br1 := ColBestResponse(payoffs, row)

	vRowDeviates := 0.0
	for j, w := range col {
		vRowDeviates += w * payoffs[br0][j]
	}

	vColDeviates := 0.0
	for i, w := range row {
		vColDeviates += w * payoffs[i][br1]
	}

	return vRowDeviates - vColDeviates
}

func rowBestResponse(payoffs [][]float64, colWeights []float64, rng *rand.Rand) int {
	utilities := make([]float64, len(payoffs))
	for j, w := range colWeights {
		for i := range utilities {
			utilities[i] += w * payoffs[i][j]
		}
	}

	_, br := argMax(utilities, rng)
	return br
}

func colBestResponse(payoffs [][]float64, rowWeights []float64, rng *rand.Rand) int {
	utilities := make([]float64, len(payoffs[0]))
	for i, w := range rowWeights {
		for j := range utilities {
			utilities[j] -= w * payoffs[i][j]
		}
	}

	_, br := argMax(utilities, rng)
	return br
}

func normalize(counts []float64) []float64 {
	total := 0.0
	for _, v := range counts {
		total += v
	}

	result := make([]float64, len(counts))
	if total == 0 {
		return result
	}
	for i, v := range counts {
		result[i] = v / total
	}

	return result
}

func argMax(vs []float64, rng *rand.Rand) (float64, int) {
	best := math.Inf(-1)
	bestIdx := 0
	for i, v := range vs {
		if v > best {
			best = v
			bestIdx = i
		} else if v == best && rng != nil && rng.Intn(2) == 1 {
			bestIdx = i
		}
	}

	return best, bestIdx
}
