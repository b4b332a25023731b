// Command addition_table prints the optimal value and move for every
// reachable sum of the addition game, then compares full minimax search
// against alpha-beta pruning on the explicit game tree.
package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/timpalpant/efg/blackwell"
	"github.com/timpalpant/efg/minimax"
)

func main() {
	k := flag.Int("k", 2, "Largest number a player may add")
	n := flag.Int("n", 10, "Sum threshold; the player who exceeds it loses")
	flag.Parse()

	// Value to the player about to move at sum s: any choice i that
	// busts pays -1, otherwise the opponent faces -V(s+i).
	values := make([]float64, *n+1)
	moves := make([]int, *n+1)
	for s := *n; s >= 0; s-- {
		best := math.Inf(-1)
		bestMove := 0
		for i := 1; i <= *k; i++ {
			v := -1.0
			if s+i <= *n {
				v = -values[s+i]
			}
			if v > best {
				best = v
				bestMove = i
			}
		}
		values[s] = best
		moves[s] = bestMove
	}

	fmt.Printf("%4s %6s %5s %12s\n", "s", "V(s)", "move", "(n-s)%(k+1)")
	for s := 0; s <= *n; s++ {
		fmt.Printf("%4d %6.0f %5d %12d\n", s, values[s], moves[s], (*n-s)%(*k+1))
	}

	t, err := blackwell.Addition(*k, *n)
	if err != nil {
		glog.Fatal(err)
	}

	full, err := minimax.Solve(t)
	if err != nil {
		glog.Fatal(err)
	}
	pruned, err := minimax.SolveAlphaBeta(t)
	if err != nil {
		glog.Fatal(err)
	}

	glog.Infof("Minimax value %v visiting %d of %d nodes", full.Value, full.NodesVisited, t.NumNodes())
	glog.Infof("Alpha-beta value %v visiting %d nodes", pruned.Value, pruned.NodesVisited)
	glog.Infof("Analytical value %v", blackwell.AdditionValue(*k, *n))
	glog.Infof("Principal variation: %v", full.PrincipalVariation(t))
}
