// Package montecarlo estimates expected payoffs by sampling complete
// games, as an independent check on exact evaluation.
package montecarlo

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/timpalpant/efg"
)

// Playout plays a single game from the root to a terminal node,
// following the pure strategies at decision nodes and sampling chance
// edges by their probabilities. It returns the payoff to Player0.
func Playout(t *efg.Tree, s0, s1 *efg.PureStrategy, rng *rand.Rand) (float64, error) {
	id := t.Root()
	for {
		switch t.Kind(id) {
		case efg.Terminal:
			return t.Payoff(id, efg.Player0)
		case efg.Chance:
			edges := t.Edges(id)
			cum := make([]float64, len(edges))
			total := 0.0
			for i, e := range edges {
				total += e.Prob
				cum[i] = total
			}

			x := rng.Float64() * total
			selected := sort.Search(len(cum), func(i int) bool {
				return cum[i] > x
			})
			if selected == len(cum) {
				selected = len(cum) - 1
			}
			id = edges[selected].Child
		default:
			isID, err := t.InfoSetID(id)
			if err != nil {
				return 0, err
			}
			p, err := t.OwningPlayer(id)
			if err != nil {
				return 0, err
			}

			s := s0
			if p == efg.Player1 {
				s = s1
			}
			a, ok := s.ActionAt(isID)
			if !ok {
				return 0, errors.Errorf("no action for information set %q at node %q", isID, t.ID(id))
			}

			next := efg.NodeID(-1)
			for _, e := range t.Edges(id) {
				if e.Action == a {
					next = e.Child
					break
				}
			}
			if next < 0 {
				return 0, errors.Errorf("action %q is not available at node %q", a, t.ID(id))
			}
			id = next
		}
	}
}
