// Package minimax solves perfect-information zero-sum game trees by
// backward induction, with and without alpha-beta pruning.
package minimax

import (
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/efg"
)

// ErrImperfectInformation is returned for trees where some information
// set contains more than one node; backward induction is only defined
// for perfect-information games.
var ErrImperfectInformation = errors.New("game does not have perfect information")

// Result holds the root value of a perfect-information zero-sum game,
// always from Player0's point of view, together with the best action
// found at each decision node evaluated during the search.
type Result struct {
	Value float64
	// NodesVisited counts every node evaluated, pruned subtrees
	// excluded.
	NodesVisited int

	policy map[efg.NodeID]efg.Action
}

// Action returns the best action found at the given decision node, if
// the search evaluated it.
func (r *Result) Action(id efg.NodeID) (efg.Action, bool) {
	a, ok := r.policy[id]
	return a, ok
}

// PrincipalVariation returns the sequence of optimal actions from the
// root, stopping at the first chance or terminal node.
func (r *Result) PrincipalVariation(t *efg.Tree) []efg.Action {
	var pv []efg.Action
	id := t.Root()
	for t.Kind(id) == efg.Decision {
		a, ok := r.policy[id]
		if !ok {
			break
		}
		pv = append(pv, a)
		for _, e := range t.Edges(id) {
			if e.Action == a {
				id = e.Child
				break
			}
		}
	}

	return pv
}

// Solve computes the value of t by expectiminimax: Player0 maximizes,
// Player1 minimizes, chance nodes take the probability-weighted
// expectation over their children.
func Solve(t *efg.Tree) (*Result, error) {
	if err := requirePerfectInformation(t); err != nil {
		return nil, err
	}

	r := &Result{policy: make(map[efg.NodeID]efg.Action)}
	v, err := r.search(t, t.Root())
	if err != nil {
		return nil, err
	}
	r.Value = v

	return r, nil
}

// SolveAlphaBeta computes the same value as Solve, pruning decision
// subtrees that cannot affect the result. NodesVisited never exceeds
// the full search's count.
func SolveAlphaBeta(t *efg.Tree) (*Result, error) {
	if err := requirePerfectInformation(t); err != nil {
		return nil, err
	}

	r := &Result{policy: make(map[efg.NodeID]efg.Action)}
	v, err := r.searchAlphaBeta(t, t.Root(), math.Inf(-1), math.Inf(1))
	if err != nil {
		return nil, err
	}
	r.Value = v

	return r, nil
}

func (r *Result) search(t *efg.Tree, id efg.NodeID) (float64, error) {
	r.NodesVisited++
	switch t.Kind(id) {
	case efg.Terminal:
		return t.Payoff(id, efg.Player0)
	case efg.Chance:
		total := 0.0
		for _, e := range t.Edges(id) {
			v, err := r.search(t, e.Child)
			if err != nil {
				return 0, err
			}
			total += e.Prob * v
		}
		return total, nil
	}

	p, err := t.OwningPlayer(id)
	if err != nil {
		return 0, err
	}

	best := math.Inf(-1)
	if p == efg.Player1 {
		best = math.Inf(1)
	}
	for _, e := range t.Edges(id) {
		v, err := r.search(t, e.Child)
		if err != nil {
			return 0, err
		}
		if (p == efg.Player0 && v > best) || (p == efg.Player1 && v < best) {
			best = v
			r.policy[id] = e.Action
		}
	}

	return best, nil
}

func (r *Result) searchAlphaBeta(t *efg.Tree, id efg.NodeID, alpha, beta float64) (float64, error) {
	r.NodesVisited++
	switch t.Kind(id) {
	case efg.Terminal:
		return t.Payoff(id, efg.Player0)
	case efg.Chance:
		// Chance children are searched with a full window; bounding
		// them would need payoff range information we don't have.
		total := 0.0
		for _, e := range t.Edges(id) {
			v, err := r.searchAlphaBeta(t, e.Child, math.Inf(-1), math.Inf(1))
			if err != nil {
				return 0, err
			}
			total += e.Prob * v
		}
		return total, nil
	}

	p, err := t.OwningPlayer(id)
	if err != nil {
		return 0, err
	}

	if p == efg.Player0 {
		best := math.Inf(-1)
		for _, e := range t.Edges(id) {
			v, err := r.searchAlphaBeta(t, e.Child, alpha, beta)
			if err != nil {
				return 0, err
			}
			if v > best {
				best = v
				r.policy[id] = e.Action
			}
			if v > alpha {
				alpha = v
			}
			if alpha >= beta {
				break
			}
		}
		return best, nil
	}

	best := math.Inf(1)
	for _, e := range t.Edges(id) {
		v, err := r.searchAlphaBeta(t, e.Child, alpha, beta)
		if err != nil {
			return 0, err
		}
		if v < best {
			best = v
			r.policy[id] = e.Action
		}
		if v < beta {
			beta = v
		}
		if alpha >= beta {
			break
		}
	}

	return best, nil
}

func requirePerfectInformation(t *efg.Tree) error {
	for _, p := range []efg.Player{efg.Player0, efg.Player1} {
		for _, is := range t.InformationSets(p) {
			if len(is.Nodes) > 1 {
				return errors.Wrapf(ErrImperfectInformation, "information set %q has %d nodes", is.ID, len(is.Nodes))
			}
		}
	}

	return nil
}
