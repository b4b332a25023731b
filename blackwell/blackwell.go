// Package blackwell builds the example games from Blackwell and
// Girshick's treatment of extensive-form games: a dollar-sum betting
// game with a chance bonus, a parity selection game with a hidden
// choice and a public coin, and the alternating addition game.
package blackwell

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/timpalpant/efg"
)

// Dollar returns the dollar-sum game. Player0 picks a number 1 or 2 and
// then, having forgotten the number, calls Head or Tail. Player1, who
// observes nothing, replies 3 or 4. A referee draws a bonus of 3, 2 or
// 1 dollars with probabilities 0.4, 0.2, 0.4; the pot is number + reply
// + bonus. Player0 wins the pot on Tail and pays it on Head.
func Dollar() *efg.Tree {
	var nodes, terminals []efg.Def

	nodes = append(nodes, efg.Def{
		ID: "pick", Kind: efg.Decision, Player: efg.Player0, InfoSet: "pick",
		Edges: []efg.EdgeDef{
			{Action: "1", Child: "call-1"},
			{Action: "2", Child: "call-2"},
		},
	})

	bonuses := []struct {
		amount int
		prob   float64
	}{{3, 0.4}, {2, 0.2}, {1, 0.4}}

	for _, pick := range []int{1, 2} {
		callID := fmt.Sprintf("call-%d", pick)
		nodes = append(nodes, efg.Def{
			ID: callID, Kind: efg.Decision, Player: efg.Player0, InfoSet: "call",
			Edges: []efg.EdgeDef{
				{Action: "Head", Child: fmt.Sprintf("reply-%d-Head", pick)},
				{Action: "Tail", Child: fmt.Sprintf("reply-%d-Tail", pick)},
			},
		})

		for _, call := range []string{"Head", "Tail"} {
			replyID := fmt.Sprintf("reply-%d-%s", pick, call)
			nodes = append(nodes, efg.Def{
				ID: replyID, Kind: efg.Decision, Player: efg.Player1, InfoSet: "reply",
				Edges: []efg.EdgeDef{
					{Action: "3", Child: fmt.Sprintf("bonus-%d-%s-3", pick, call)},
					{Action: "4", Child: fmt.Sprintf("bonus-%d-%s-4", pick, call)},
				},
			})

			for _, reply := range []int{3, 4} {
				bonusID := fmt.Sprintf("bonus-%d-%s-%d", pick, call, reply)
				var edges []efg.EdgeDef
				for _, b := range bonuses {
					termID := fmt.Sprintf("pot-%d-%s-%d-%d", pick, call, reply, b.amount)
					pot := float64(pick + reply + b.amount)
					payoff := pot
					if call == "Head" {
						payoff = -pot
					}

					edges = append(edges, efg.EdgeDef{
						Action: efg.Action(strconv.Itoa(b.amount)),
						Prob:   b.prob,
						Child:  termID,
					})
					terminals = append(terminals, efg.Def{
						ID: termID, Kind: efg.Terminal,
						Payoffs: []float64{payoff, -payoff},
					})
				}
				nodes = append(nodes, efg.Def{ID: bonusID, Kind: efg.Chance, Edges: edges})
			}
		}
	}

	return mustBuild(efg.GameDef{
		Name:  "dollar",
		Root:  "pick",
		Nodes: append(nodes, terminals...),
	})
}

// Parity returns the parity selection game. Player0 secretly picks
// i in {0,1}; a fair coin shows j to Player1 only; Player1 picks
// k in {0,1} knowing j but not i. Player0 wins 1 when i+j+k differs
// from 1 and loses 1 otherwise. Player1's two information sets H0 and
// H1 correspond to the two coin outcomes.
func Parity() *efg.Tree {
	var nodes, kNodes, terminals []efg.Def

	nodes = append(nodes, efg.Def{
		ID: "choose", Kind: efg.Decision, Player: efg.Player0, InfoSet: "i",
		Edges: []efg.EdgeDef{
			{Action: "0", Child: "coin-0"},
			{Action: "1", Child: "coin-1"},
		},
	})

	for i := 0; i <= 1; i++ {
		coinID := fmt.Sprintf("coin-%d", i)
		var coinEdges []efg.EdgeDef
		for j := 0; j <= 1; j++ {
			kID := fmt.Sprintf("k-%d-%d", i, j)
			coinEdges = append(coinEdges, efg.EdgeDef{
				Action: efg.Action(strconv.Itoa(j)),
				Prob:   0.5,
				Child:  kID,
			})

			var kEdges []efg.EdgeDef
			for k := 0; k <= 1; k++ {
				termID := fmt.Sprintf("t-%d-%d-%d", i, j, k)
				payoff := 1.0
				if i+j+k == 1 {
					payoff = -1.0
				}

				kEdges = append(kEdges, efg.EdgeDef{
					Action: efg.Action(strconv.Itoa(k)),
					Child:  termID,
				})
				terminals = append(terminals, efg.Def{
					ID: termID, Kind: efg.Terminal,
					Payoffs: []float64{payoff, -payoff},
				})
			}
			kNodes = append(kNodes, efg.Def{
				ID: kID, Kind: efg.Decision, Player: efg.Player1,
				InfoSet: fmt.Sprintf("H%d", j),
				Edges:   kEdges,
			})
		}
		nodes = append(nodes, efg.Def{ID: coinID, Kind: efg.Chance, Edges: coinEdges})
	}

	nodes = append(nodes, kNodes...)
	return mustBuild(efg.GameDef{
		Name:  "parity",
		Root:  "choose",
		Nodes: append(nodes, terminals...),
	})
}

const maxAdditionNodes = 1 << 18

// Addition returns Blackwell's addition game: starting from a sum of
// zero, the players alternately add an integer from 1..k with Player0
// moving first; the player who pushes the sum past n pays the other
// one unit. The game has perfect information and no chance moves.
func Addition(k, n int) (*efg.Tree, error) {
	if k < 1 || n < 1 {
		return nil, errors.Errorf("addition game requires k >= 1 and n >= 1, got k=%d n=%d", k, n)
	}

	b := &additionBuilder{k: k, n: n}
	root := b.node(0, efg.Player0, "r")
	if b.err != nil {
		return nil, b.err
	}

	return efg.New(efg.GameDef{
		Name:  fmt.Sprintf("addition-%d-%d", k, n),
		Root:  root,
		Nodes: b.nodes,
	})
}

// AdditionValue returns the game-theoretic value of Addition(k, n) to
// Player0: the player to move at sum s loses exactly when n-s is a
// multiple of k+1.
func AdditionValue(k, n int) float64 {
	if n%(k+1) == 0 {
		return -1
	}
	return 1
}

type additionBuilder struct {
	k, n  int
	nodes []efg.Def
	err   error
}

// node emits the decision node for the player to move at sum s,
// identified by the path of choices taken so far, and returns its id.
func (b *additionBuilder) node(s int, p efg.Player, path string) string {
	if b.err != nil {
		return path
	}
	if len(b.nodes) >= maxAdditionNodes {
		b.err = errors.Errorf("addition game with k=%d n=%d has too many nodes", b.k, b.n)
		return path
	}

	slot := len(b.nodes)
	b.nodes = append(b.nodes, efg.Def{
		ID: path, Kind: efg.Decision, Player: p, InfoSet: path,
	})

	var edges []efg.EdgeDef
	for i := 1; i <= b.k; i++ {
		action := strconv.Itoa(i)
		childPath := path + "-" + action
		if s+i > b.n {
			// The mover busts and pays one unit.
			payoffs := []float64{-1, 1}
			if p == efg.Player1 {
				payoffs = []float64{1, -1}
			}
			b.nodes = append(b.nodes, efg.Def{
				ID: childPath, Kind: efg.Terminal, Payoffs: payoffs,
			})
		} else {
			b.node(s+i, p.Opponent(), childPath)
		}
		edges = append(edges, efg.EdgeDef{Action: efg.Action(action), Child: childPath})
	}
	b.nodes[slot].Edges = edges

	return path
}

func mustBuild(def efg.GameDef) *efg.Tree {
	t, err := efg.New(def)
	if err != nil {
		panic(err)
	}
	return t
}
