package efg

// InformationSet is a group of decision nodes belonging to one player
// that the player cannot tell apart at decision time. All member nodes
// share the same owner and the same ordered action list; both are
// validated at construction.
type InformationSet struct {
	ID      string
	Player  Player
	Actions []Action
	// Nodes are the member nodes, in first-discovery order.
	Nodes []NodeID
}
