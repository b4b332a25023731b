// Command vanilla_cfr runs vanilla CFR over a game and reports the
// expected value at the root, as an independent check on the exact
// equilibrium solver.
package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/golang/glog"
	"github.com/timpalpant/go-cfr"
	"github.com/timpalpant/go-cfr/tree"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/internal/cli"
)

func main() {
	gameArg := flag.String("game", "parity", "Builtin game name or path to a JSON game description")
	seed := flag.Int64("seed", 123, "Random seed")
	flag.Parse()

	rand.Seed(*seed)

	t, err := cli.ResolveGame(*gameArg)
	if err != nil {
		glog.Fatal(err)
	}

	vanillaCFR := cfr.NewVanilla()
	game := efg.NewGameNode(t)
	total := 0
	start := time.Now()
	tree.Visit(game, func(node cfr.GameTreeNode) {
		total++
	})
	glog.Infof("Visited %d nodes in %v", total, time.Since(start))

	expectedValue := vanillaCFR.Run(game)
	glog.Infof("Expected value is: %v", expectedValue)
}
