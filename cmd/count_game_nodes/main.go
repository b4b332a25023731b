// Command count_game_nodes reports the size of a game: nodes by kind
// and the number of pure strategies for each player.
package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/timpalpant/go-cfr"
	"github.com/timpalpant/go-cfr/tree"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/internal/cli"
)

func main() {
	gameArg := flag.String("game", "parity", "Builtin game name or path to a JSON game description")
	flag.Parse()

	t, err := cli.ResolveGame(*gameArg)
	if err != nil {
		glog.Fatal(err)
	}

	var total, decision, chance, terminal int
	tree.Visit(efg.NewGameNode(t), func(node cfr.GameTreeNode) {
		total++
		switch node.Type() {
		case cfr.ChanceNode:
			chance++
		case cfr.TerminalNode:
			terminal++
		default:
			decision++
		}
	})

	glog.Infof("%d nodes in game: %d decision, %d chance, %d terminal",
		total, decision, chance, terminal)
	for _, p := range []efg.Player{efg.Player0, efg.Player1} {
		strategies, err := efg.Enumerate(t, p)
		if err != nil {
			glog.Infof("%v has %d information sets; %v",
				p, len(t.InformationSets(p)), err)
			continue
		}
		glog.Infof("%v has %d information sets and %d pure strategies",
			p, len(t.InformationSets(p)), len(strategies))
	}
}
