package efg

import (
	"encoding/binary"
	"expvar"
	"fmt"
	"math/rand"
	"sort"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr"
)

var (
	nodesVisited         = expvar.NewInt("nodes_visited")
	terminalNodesVisited = expvar.NewInt("nodes_visited/terminal")
	playerNodesVisited   = expvar.NewInt("nodes_visited/player")
	chanceNodesVisited   = expvar.NewInt("nodes_visited/chance")
)

// GameNode adapts a Tree for use with the CFR implementations in
// github.com/timpalpant/go-cfr.
type GameNode struct {
	tree   *Tree
	node   NodeID
	parent *GameNode
	rng    *rand.Rand
}

// Verify that we implement the interface.
var _ cfr.GameTreeNode = &GameNode{}

// NewGameNode returns the root of t as a cfr.GameTreeNode.
func NewGameNode(t *Tree) *GameNode {
	return &GameNode{
		tree: t,
		node: t.Root(),
		rng:  rand.New(rand.NewSource(rand.Int63())),
	}
}

// Type implements cfr.GameTreeNode.
func (gn *GameNode) Type() cfr.NodeType {
	switch gn.tree.Kind(gn.node) {
	case Chance:
		return cfr.ChanceNode
	case Terminal:
		return cfr.TerminalNode
	default:
		return cfr.PlayerNode
	}
}

// Player implements cfr.GameTreeNode.
func (gn *GameNode) Player() int {
	p, err := gn.tree.OwningPlayer(gn.node)
	if err != nil {
		panic(fmt.Sprintf("cannot get the player of a %v node", gn.tree.Kind(gn.node)))
	}

	return int(p)
}

// InfoSet implements cfr.GameTreeNode: the key is the binary encoding
// of what the given player observes at this node.
func (gn *GameNode) InfoSet(player int) string {
	isID, err := gn.tree.InfoSetID(gn.node)
	if err != nil {
		panic("cannot get the info set of a non-decision node")
	}

	edges := gn.tree.Edges(gn.node)
	actions := make([]Action, len(edges))
	for i, e := range edges {
		actions[i] = e.Action
	}

	view := &InfoSetView{
		Player:           Player(player),
		ID:               isID,
		AvailableActions: actions,
	}

	return view.Key()
}

// Utility implements cfr.GameTreeNode.
func (gn *GameNode) Utility(player int) float64 {
	payoffs, err := gn.tree.TerminalPayoff(gn.node)
	if err != nil {
		panic("cannot get the utility of a non-terminal node")
	}

	return payoffs[player]
}

// NumChildren implements cfr.GameTreeNode.
func (gn *GameNode) NumChildren() int {
	return len(gn.tree.Edges(gn.node))
}

// GetChild implements cfr.GameTreeNode.
func (gn *GameNode) GetChild(i int) cfr.GameTreeNode {
	return &GameNode{
		tree:   gn.tree,
		node:   gn.tree.Edges(gn.node)[i].Child,
		parent: gn,
		rng:    gn.rng,
	}
}

// GetChildProbability implements cfr.GameTreeNode.
func (gn *GameNode) GetChildProbability(i int) float64 {
	if gn.Type() != cfr.ChanceNode {
		panic("cannot get the probability of a non-chance node")
	}

	return gn.tree.Edges(gn.node)[i].Prob
}

// BuildChildren implements cfr.GameTreeNode. Children are lightweight
// views into the shared Tree and need no precomputation; it only
// updates the node visit counters.
func (gn *GameNode) BuildChildren() {
	nodesVisited.Add(1)
	switch gn.Type() {
	case cfr.TerminalNode:
		terminalNodesVisited.Add(1)
	case cfr.PlayerNode:
		playerNodesVisited.Add(1)
	case cfr.ChanceNode:
		chanceNodesVisited.Add(1)
	}
}

// FreeChildren implements cfr.GameTreeNode. There is nothing to
// release.
func (gn *GameNode) FreeChildren() {}

// SampleChild draws a child of a chance node in proportion to the edge
// probabilities.
func (gn *GameNode) SampleChild() (cfr.GameTreeNode, float64) {
	edges := gn.tree.Edges(gn.node)
	cum := make([]float64, len(edges))
	total := 0.0
	for i, e := range edges {
		total += e.Prob
		cum[i] = total
	}

	x := gn.rng.Float64() * total
	selected := sort.Search(len(cum), func(i int) bool {
		return cum[i] > x
	})
	if selected == len(cum) {
		selected = len(cum) - 1
	}

	return gn.GetChild(selected), gn.GetChildProbability(selected)
}

// Parent returns the node this one was reached from, or nil for the
// root.
func (gn *GameNode) Parent() cfr.GameTreeNode {
	if gn.parent == nil {
		return nil
	}

	return gn.parent
}

// String implements fmt.Stringer.
func (gn *GameNode) String() string {
	return fmt.Sprintf("%v node %q with %d children",
		gn.tree.Kind(gn.node), gn.tree.ID(gn.node), gn.NumChildren())
}

// InfoSetView is what a player observes at a decision node: the
// information set id and the actions available there.
type InfoSetView struct {
	Player           Player
	ID               string
	AvailableActions []Action
}

// Key returns the binary encoding of the view as a string, usable as a
// map key.
func (is *InfoSetView) Key() string {
	buf, _ := is.MarshalBinary()
	return *(*string)(unsafe.Pointer(&buf))
}

// MarshalBinary implements encoding.BinaryMarshaler. Lengths are
// uvarint encoded, so ids and action labels of any length round-trip.
func (is *InfoSetView) MarshalBinary() ([]byte, error) {
	bufSize := 3 + len(is.ID)
	for _, a := range is.AvailableActions {
		bufSize += 1 + len(a)
	}

	buf := make([]byte, 0, bufSize)
	buf = append(buf, byte(is.Player))
	buf = binary.AppendUvarint(buf, uint64(len(is.ID)))
	buf = append(buf, is.ID...)
	buf = binary.AppendUvarint(buf, uint64(len(is.AvailableActions)))
	for _, a := range is.AvailableActions {
		buf = binary.AppendUvarint(buf, uint64(len(a)))
		buf = append(buf, a...)
	}

	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (is *InfoSetView) UnmarshalBinary(buf []byte) error {
	if len(buf) < 1 {
		return errors.New("info set buffer too short")
	}
	is.Player = Player(buf[0])
	buf = buf[1:]

	id, buf, err := readLengthPrefixed(buf)
	if err != nil {
		return err
	}
	is.ID = string(id)

	nActions, n := binary.Uvarint(buf)
	if n <= 0 {
		return errors.New("info set buffer too short")
	}
	buf = buf[n:]

	is.AvailableActions = is.AvailableActions[:0]
	for i := uint64(0); i < nActions; i++ {
		var a []byte
		a, buf, err = readLengthPrefixed(buf)
		if err != nil {
			return err
		}
		is.AvailableActions = append(is.AvailableActions, Action(a))
	}

	if len(buf) != 0 {
		return errors.Errorf("%d trailing bytes in info set buffer", len(buf))
	}

	return nil
}

func readLengthPrefixed(buf []byte) ([]byte, []byte, error) {
	m, n := binary.Uvarint(buf)
	if n <= 0 || uint64(len(buf)-n) < m {
		return nil, nil, errors.New("info set buffer too short")
	}

	return buf[n : n+int(m)], buf[n+int(m):], nil
}
