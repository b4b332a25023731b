// Command solve_game computes the equilibrium value and optimal mixed
// strategies of a two-player zero-sum extensive-form game.
package main

import (
	"encoding/gob"
	"flag"
	"math/rand"
	"os"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/efgio"
	"github.com/timpalpant/efg/internal/cli"
	"github.com/timpalpant/efg/matrixgame"
)

func main() {
	game := flag.String("game", "parity", "Builtin game name or path to a JSON game description")
	out := flag.String("out", "", "File to save the solution to (gob, gzipped)")
	fpIters := flag.Int("fp_iters", 0, "Cross-check the solution with fictitious play for this many iterations")
	seed := flag.Int64("seed", 123, "Random seed for fictitious play")
	flag.Parse()

	t, err := cli.ResolveGame(*game)
	if err != nil {
		glog.Fatal(err)
	}

	sol, err := efg.Solve(t)
	if err != nil {
		glog.Fatal(err)
	}

	glog.Infof("Game value: %v", sol.Value)
	logMixture("Player0", sol.Strategy0)
	logMixture("Player1", sol.Strategy1)

	if *fpIters > 0 {
		m, err := efg.NormalForm(t)
		if err != nil {
			glog.Fatal(err)
		}

		rng := rand.New(rand.NewSource(*seed))
		row, col := matrixgame.FictitiousPlay(m.Payoffs, *fpIters, 0.05, rng)
		glog.Infof("Fictitious play exploitability after %d iterations: %v",
			*fpIters, matrixgame.Exploitability(m.Payoffs, row, col))
	}

	if *out != "" {
		mustSaveSolution(*out, efgio.NewSolution(t.Name(), sol))
	}
}

func logMixture(name string, m efg.MixedStrategy) {
	for _, i := range m.Support() {
		glog.Infof("%s plays %v with probability %.6f", name, m.Pure[i].String(), m.Weights[i])
	}
}

func mustSaveSolution(filename string, sol *efgio.Solution) {
	glog.Infof("Saving solution to: %v", filename)
	f, err := os.Create(filename)
	if err != nil {
		glog.Fatal(err)
	}
	defer f.Close()

	w := gzip.NewWriter(f)
	defer w.Close()

	enc := gob.NewEncoder(w)
	if err := enc.Encode(sol); err != nil {
		glog.Fatal(err)
	}
}
