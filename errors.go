package efg

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotTerminal is returned when a terminal-only accessor is
	// called on a decision or chance node.
	ErrNotTerminal = errors.New("node is not a terminal node")

	// ErrNotDecision is returned when a decision-only accessor is
	// called on a chance or terminal node.
	ErrNotDecision = errors.New("node is not a decision node")

	// ErrNotZeroSum is returned when a game whose terminal payoffs do
	// not sum to zero is given to the zero-sum solver.
	ErrNotZeroSum = errors.New("terminal payoffs do not sum to zero")

	// ErrWrongPlayer is returned when a strategy is used in a position
	// reserved for the other player.
	ErrWrongPlayer = errors.New("strategy belongs to the wrong player")

	// ErrIncompleteStrategy is returned when a strategy does not assign
	// an action to every information set it is asked about.
	ErrIncompleteStrategy = errors.New("strategy does not cover all information sets")

	// ErrTooManyStrategies is returned when a player's pure strategy
	// space is too large to enumerate explicitly.
	ErrTooManyStrategies = errors.New("pure strategy space is too large to enumerate")
)

// MalformedTreeError reports a structural violation found while
// constructing a Tree. Construction aborts on the first violation; no
// partial tree is returned.
type MalformedTreeError struct {
	Node   string
	Reason string
}

func (e *MalformedTreeError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("malformed game tree: %s", e.Reason)
	}

	return fmt.Sprintf("malformed game tree: node %q: %s", e.Node, e.Reason)
}
