package efg

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ProbTolerance is the floating tolerance within which chance-node
// probabilities must sum to 1 and zero-sum payoffs must sum to 0.
const ProbTolerance = 1e-9

type node struct {
	id      string
	kind    NodeKind
	player  Player
	infoSet string
	payoffs [2]float64
	edges   []Edge
	parent  NodeID
}

// Tree is an immutable extensive-form game tree: a strict ownership
// tree of decision, chance and terminal nodes reachable from a single
// root. Once constructed a Tree is never mutated and may be shared
// freely between goroutines without synchronization.
type Tree struct {
	def      GameDef
	nodes    []node
	root     NodeID
	byID     map[string]NodeID
	infoSets [2][]InformationSet
}

// New builds a Tree from its declarative description, validating every
// structural invariant: unique node ids, a single connected acyclic
// structure rooted at def.Root, unique action labels per node, chance
// probabilities summing to 1 within ProbTolerance, and information sets
// whose member nodes agree on owner and available actions. Any
// violation is reported as a *MalformedTreeError.
func New(def GameDef) (*Tree, error) {
	if len(def.Nodes) == 0 {
		return nil, &MalformedTreeError{Reason: "game has no nodes"}
	}

	t := &Tree{
		def:   copyDef(def),
		nodes: make([]node, 0, len(def.Nodes)),
		byID:  make(map[string]NodeID, len(def.Nodes)),
	}

	for _, d := range def.Nodes {
		if d.ID == "" {
			return nil, &MalformedTreeError{Reason: "node with empty id"}
		}
		if _, ok := t.byID[d.ID]; ok {
			return nil, &MalformedTreeError{Node: d.ID, Reason: "duplicate node id"}
		}

		t.byID[d.ID] = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, node{id: d.ID, parent: -1})
	}

	root, ok := t.byID[def.Root]
	if !ok {
		return nil, &MalformedTreeError{Node: def.Root, Reason: "root node not found"}
	}
	t.root = root

	for _, d := range def.Nodes {
		if err := t.initNode(d); err != nil {
			return nil, err
		}
	}

	if err := t.checkReachable(); err != nil {
		return nil, err
	}
	if err := t.collectInfoSets(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tree) initNode(d Def) error {
	id := t.byID[d.ID]
	n := &t.nodes[id]
	n.kind = d.Kind

	switch d.Kind {
	case Decision:
		if d.InfoSet == "" {
			return &MalformedTreeError{Node: d.ID, Reason: "decision node without an information set"}
		}
		if d.Player != Player0 && d.Player != Player1 {
			return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("invalid player %d", uint8(d.Player))}
		}
		n.player = d.Player
		n.infoSet = d.InfoSet
	case Chance, Terminal:
		if d.InfoSet != "" {
			return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("%v node cannot belong to an information set", d.Kind)}
		}
	default:
		return &MalformedTreeError{Node: d.ID, Reason: "unknown node kind"}
	}

	if d.Kind == Terminal {
		if len(d.Edges) != 0 {
			return &MalformedTreeError{Node: d.ID, Reason: "terminal node has outgoing edges"}
		}
		if len(d.Payoffs) != 2 {
			return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("terminal node has %d payoffs, expected one per player", len(d.Payoffs))}
		}

		n.payoffs = [2]float64{d.Payoffs[0], d.Payoffs[1]}
		return nil
	}

	if len(d.Payoffs) != 0 {
		return &MalformedTreeError{Node: d.ID, Reason: "payoffs on a non-terminal node"}
	}
	if len(d.Edges) == 0 {
		return &MalformedTreeError{Node: d.ID, Reason: "non-terminal node has no outgoing edges"}
	}

	seen := make(map[Action]bool, len(d.Edges))
	probSum := 0.0
	for _, e := range d.Edges {
		if seen[e.Action] {
			return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("duplicate action %q", e.Action)}
		}
		seen[e.Action] = true

		child, ok := t.byID[e.Child]
		if !ok {
			return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("edge %q references unknown node %q", e.Action, e.Child)}
		}
		if child == t.root {
			return &MalformedTreeError{Node: d.ID, Reason: "root node cannot be a child"}
		}

		cn := &t.nodes[child]
		if cn.parent != -1 {
			return &MalformedTreeError{Node: e.Child, Reason: "node has more than one parent"}
		}
		cn.parent = id

		switch d.Kind {
		case Chance:
			if e.Prob < 0 || e.Prob > 1 {
				return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("probability %v of action %q is out of range", e.Prob, e.Action)}
			}
			probSum += e.Prob
		case Decision:
			if e.Prob != 0 {
				return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("probability on decision edge %q", e.Action)}
			}
		}

		n.edges = append(n.edges, Edge{Action: e.Action, Prob: e.Prob, Child: child})
	}

	if d.Kind == Chance && math.Abs(probSum-1) > ProbTolerance {
		return &MalformedTreeError{Node: d.ID, Reason: fmt.Sprintf("chance probabilities sum to %v, expected 1", probSum)}
	}

	return nil
}

// checkReachable verifies that every node is reachable from the root.
// Together with the single-parent check in initNode this rules out both
// disconnected nodes and cycles.
func (t *Tree) checkReachable() error {
	visited := make([]bool, len(t.nodes))
	var walk func(NodeID)
	walk = func(id NodeID) {
		visited[id] = true
		for _, e := range t.nodes[id].edges {
			walk(e.Child)
		}
	}
	walk(t.root)

	for i, ok := range visited {
		if !ok {
			return &MalformedTreeError{Node: t.nodes[i].id, Reason: "node is not reachable from the root"}
		}
	}

	return nil
}

// collectInfoSets groups decision nodes by information set in preorder
// first-discovery order, validating that all members of a set share the
// same owner and the same ordered action list.
func (t *Tree) collectInfoSets() error {
	pos := make(map[string][2]int)
	var walk func(NodeID) error
	walk = func(id NodeID) error {
		n := &t.nodes[id]
		if n.kind == Decision {
			actions := make([]Action, len(n.edges))
			for i, e := range n.edges {
				actions[i] = e.Action
			}

			if p, ok := pos[n.infoSet]; ok {
				is := &t.infoSets[p[0]][p[1]]
				if is.Player != n.player {
					return &MalformedTreeError{Node: n.id, Reason: fmt.Sprintf("information set %q is owned by both %v and %v", n.infoSet, is.Player, n.player)}
				}
				if !equalActions(is.Actions, actions) {
					return &MalformedTreeError{Node: n.id, Reason: fmt.Sprintf("inconsistent actions for information set %q", n.infoSet)}
				}
				is.Nodes = append(is.Nodes, id)
			} else {
				p := int(n.player)
				pos[n.infoSet] = [2]int{p, len(t.infoSets[p])}
				t.infoSets[p] = append(t.infoSets[p], InformationSet{
					ID:      n.infoSet,
					Player:  n.player,
					Actions: actions,
					Nodes:   []NodeID{id},
				})
			}
		}

		for _, e := range n.edges {
			if err := walk(e.Child); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(t.root)
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// NumNodes returns the total number of nodes in the tree.
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// Name returns the name the game was described with, if any.
func (t *Tree) Name() string {
	return t.def.Name
}

// Kind returns the kind of the given node.
func (t *Tree) Kind(id NodeID) NodeKind {
	return t.nodes[id].kind
}

// ID returns the external id the node was described with.
func (t *Tree) ID(id NodeID) string {
	return t.nodes[id].id
}

// Edges returns the ordered outgoing edges of the given node. The
// returned slice is owned by the Tree and must not be modified.
func (t *Tree) Edges(id NodeID) []Edge {
	return t.nodes[id].edges
}

// Parent returns the parent of the given node, or false for the root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	p := t.nodes[id].parent
	return p, p != -1
}

// TerminalPayoff returns the payoff vector of a terminal node, indexed
// by player. It fails with ErrNotTerminal for other node kinds.
func (t *Tree) TerminalPayoff(id NodeID) ([2]float64, error) {
	n := &t.nodes[id]
	if n.kind != Terminal {
		return [2]float64{}, errors.Wrapf(ErrNotTerminal, "node %q is a %v node", n.id, n.kind)
	}

	return n.payoffs, nil
}

// Payoff returns the payoff to p at a terminal node.
func (t *Tree) Payoff(id NodeID, p Player) (float64, error) {
	payoffs, err := t.TerminalPayoff(id)
	if err != nil {
		return 0, err
	}

	return payoffs[p], nil
}

// OwningPlayer returns the player who moves at a decision node. It
// fails with ErrNotDecision for chance and terminal nodes.
func (t *Tree) OwningPlayer(id NodeID) (Player, error) {
	n := &t.nodes[id]
	if n.kind != Decision {
		return 0, errors.Wrapf(ErrNotDecision, "node %q is a %v node", n.id, n.kind)
	}

	return n.player, nil
}

// InfoSetID returns the information set a decision node belongs to. It
// fails with ErrNotDecision for chance and terminal nodes.
func (t *Tree) InfoSetID(id NodeID) (string, error) {
	n := &t.nodes[id]
	if n.kind != Decision {
		return "", errors.Wrapf(ErrNotDecision, "node %q is a %v node", n.id, n.kind)
	}

	return n.infoSet, nil
}

// NodeCounts returns the number of nodes of each kind.
func (t *Tree) NodeCounts() (decision, chance, terminal int) {
	for i := range t.nodes {
		switch t.nodes[i].kind {
		case Decision:
			decision++
		case Chance:
			chance++
		case Terminal:
			terminal++
		}
	}

	return decision, chance, terminal
}

// InformationSets returns p's information sets in first-discovery order
// of a preorder traversal from the root. The returned slice is owned by
// the Tree and must not be modified.
func (t *Tree) InformationSets(p Player) []InformationSet {
	return t.infoSets[p]
}

// IsZeroSum reports whether the payoffs at every terminal node sum to
// zero within the given tolerance.
func (t *Tree) IsZeroSum(tol float64) bool {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.kind == Terminal && math.Abs(n.payoffs[0]+n.payoffs[1]) > tol {
			return false
		}
	}

	return true
}

// Def returns the declarative description the tree was built from,
// preserving node and edge order. The result round-trips losslessly
// through New.
func (t *Tree) Def() GameDef {
	return copyDef(t.def)
}

func copyDef(def GameDef) GameDef {
	out := def
	out.Nodes = make([]Def, len(def.Nodes))
	for i, d := range def.Nodes {
		nd := d
		if d.Payoffs != nil {
			nd.Payoffs = append([]float64(nil), d.Payoffs...)
		}
		if d.Edges != nil {
			nd.Edges = append([]EdgeDef(nil), d.Edges...)
		}
		out.Nodes[i] = nd
	}

	return out
}

func equalActions(a, b []Action) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
