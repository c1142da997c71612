package mcts

import (
	"fmt"

	"github.com/gorgonia/uct/game"
)

type Status uint32

const (
	Invalid Status = iota
	Active
)

func (a Status) String() string {
	switch a {
	case Invalid:
		return "Invalid"
	case Active:
		return "Active"
	}
	return "UNKNOWN STATUS"
}

// Node is a vertex of the search tree. Nodes live in the tree's arena and are handed out as pointers for inspection.
//
// A *Node is only valid until the next call to Search, AdvanceRoot or Reset on its tree.
type Node[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]] struct {
	state   S
	move    M    // the move that led to state
	hasMove bool // false for the first root
	status  Status

	wins   float32 // sum of rewards, as seen by the player that moved into this node
	visits float32 // visits to this node - N(s, a) in the literature

	policy int // index into tree.policies

	// naughty things
	id   naughty
	tree *MCTS[S, M, O, P]
}

func (n *Node[S, M, O, P]) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Move: %v Wins: %v Visits: %v Status: %v}", n.id, n.moveString(), n.wins, n.visits, n.status)
	if c == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "\n%v", n.state)
	}
}

// State returns the game state the node represents.
func (n *Node[S, M, O, P]) State() S { return n.state }

// Move returns the move that produced the state. The tree's first root has no move.
func (n *Node[S, M, O, P]) Move() (M, bool) { return n.move, n.hasMove }

// Wins returns the accumulated rewards, from the point of view of the player that moved into this node.
func (n *Node[S, M, O, P]) Wins() float32 { return n.wins }

func (n *Node[S, M, O, P]) Visits() float32 { return n.visits }

func (n *Node[S, M, O, P]) ID() int { return int(n.id) }

// IsValid returns true if the node has not been freed.
func (n *Node[S, M, O, P]) IsValid() bool { return n.status != Invalid }

// IsExpanded returns true if the node has children
func (n *Node[S, M, O, P]) IsExpanded() bool { return len(n.tree.children[n.id]) > 0 }

// Children returns the children of the node, in the order their moves were enumerated.
func (n *Node[S, M, O, P]) Children() []*Node[S, M, O, P] {
	kids := n.tree.children[n.id]
	retVal := make([]*Node[S, M, O, P], 0, len(kids))
	for _, kid := range kids {
		retVal = append(retVal, n.tree.nodeFromNaughty(kid))
	}
	return retVal
}

func (n *Node[S, M, O, P]) moveString() string {
	if !n.hasMove {
		return "none"
	}
	return fmt.Sprintf("%v", n.move)
}

// countChildren counts the number of children node a node has and number of grandkids recursively
func (n *Node[S, M, O, P]) countChildren() (retVal int) {
	tree := n.tree
	for _, kid := range tree.children[n.id] {
		retVal += tree.nodeFromNaughty(kid).countChildren()
		retVal++ // plus the child itself
	}
	return
}
