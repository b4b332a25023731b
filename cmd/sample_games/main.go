// Command sample_games verifies a solution by Monte Carlo: it samples
// complete games under the solution mixtures and compares the sampled
// mean payoff with the exact game value.
package main

import (
	"context"
	"encoding/gob"
	"flag"
	"os"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/efgio"
	"github.com/timpalpant/efg/internal/cli"
	"github.com/timpalpant/efg/montecarlo"
)

func main() {
	gameArg := flag.String("game", "parity", "Builtin game name or path to a JSON game description")
	in := flag.String("in", "", "Solution file saved by solve_game; solves from scratch if empty")
	numGames := flag.Int("num_games", 100000, "Number of games to sample")
	seed := flag.Int64("seed", 1234, "Random seed")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = one per CPU)")
	flag.Parse()

	t, err := cli.ResolveGame(*gameArg)
	if err != nil {
		glog.Fatal(err)
	}

	exact, err := efg.Solve(t)
	if err != nil {
		glog.Fatal(err)
	}

	strategy0, strategy1 := exact.Strategy0, exact.Strategy1
	if *in != "" {
		saved := mustLoadSolution(*in)
		if strategy0, err = saved.MixedStrategy(t, efg.Player0); err != nil {
			glog.Fatal(err)
		}
		if strategy1, err = saved.MixedStrategy(t, efg.Player1); err != nil {
			glog.Fatal(err)
		}
	}

	glog.Infof("Playing %d games", *numGames)
	sim := &montecarlo.Simulator{
		Tree:      t,
		Strategy0: strategy0,
		Strategy1: strategy1,
		Seed:      *seed,
		Workers:   *workers,
	}
	result, err := sim.Run(context.Background(), *numGames)
	if err != nil {
		glog.Fatal(err)
	}

	lo, hi := result.ConfidenceInterval(95)
	glog.Infof("Sampled mean payoff %.5f (95%% CI %.5f..%.5f) over %d games",
		result.Mean, lo, hi, result.Iterations)
	glog.Infof("Exact game value %.5f", exact.Value)
	if exact.Value < lo || exact.Value > hi {
		glog.Warningf("Exact value lies outside the sampled confidence interval")
	}
}

func mustLoadSolution(filename string) *efgio.Solution {
	glog.Infof("Loading solution from: %v", filename)
	f, err := os.Open(filename)
	if err != nil {
		glog.Fatal(err)
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		glog.Fatal(err)
	}

	var sol efgio.Solution
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&sol); err != nil {
		glog.Fatal(err)
	}

	return &sol
}
