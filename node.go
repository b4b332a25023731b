// Package efg represents two-player zero-sum extensive-form games as
// immutable trees and computes equilibrium strategies for them.
package efg

import "fmt"

// Player identifies one of the two players in a game.
type Player uint8

const (
	Player0 Player = iota
	Player1
)

func (p Player) String() string {
	return fmt.Sprintf("Player%d", uint8(p))
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p != Player0 && p != Player1 {
		panic(fmt.Sprintf("cannot get the opponent of player %d", uint8(p)))
	}

	return 1 - p
}

// Action is the label on an edge out of a decision or chance node.
// Actions are compared by value; labels must be unique among the edges
// of a single node.
type Action string

// NodeKind is the kind of a node in the game tree.
type NodeKind uint8

const (
	_ NodeKind = iota
	Decision
	Chance
	Terminal
)

var nodeKindStr = [...]string{
	"invalid",
	"decision",
	"chance",
	"terminal",
}

func (k NodeKind) String() string {
	if int(k) >= len(nodeKindStr) {
		return nodeKindStr[0]
	}

	return nodeKindStr[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	if k != Decision && k != Chance && k != Terminal {
		return nil, fmt.Errorf("unknown node kind %d", uint8(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKind) UnmarshalText(text []byte) error {
	for i := int(Decision); i <= int(Terminal); i++ {
		if string(text) == nodeKindStr[i] {
			*k = NodeKind(i)
			return nil
		}
	}

	return fmt.Errorf("unknown node kind %q", string(text))
}

// EdgeDef is one labeled edge in a game description. Prob is meaningful
// only on edges out of chance nodes and must be left zero elsewhere.
type EdgeDef struct {
	Action Action  `json:"action"`
	Prob   float64 `json:"prob,omitempty"`
	Child  string  `json:"child"`
}

// Def describes a single node of a game, one record per node: its id,
// kind, owner and information set for decision nodes, payoff vector for
// terminal nodes, and outgoing edges.
type Def struct {
	ID      string    `json:"id"`
	Kind    NodeKind  `json:"kind"`
	Player  Player    `json:"player,omitempty"`
	InfoSet string    `json:"info_set,omitempty"`
	Payoffs []float64 `json:"payoffs,omitempty"`
	Edges   []EdgeDef `json:"edges,omitempty"`
}

// GameDef is a complete declarative description of an extensive-form
// game, suitable for serialization. Node and edge order is significant:
// it fixes the traversal order used everywhere else.
type GameDef struct {
	Name  string `json:"name,omitempty"`
	Root  string `json:"root"`
	Nodes []Def  `json:"nodes"`
}

// NodeID indexes a node within a Tree. IDs are only meaningful for the
// Tree that produced them.
type NodeID int32

// Edge is a resolved labeled transition from a parent node to a child.
type Edge struct {
	Action Action
	Prob   float64
	Child  NodeID
}
