package mcts

import (
	"github.com/gorgonia/uct/game"
)

// step is a node visited while descending the tree, and the player whose rewards it accumulates.
type step[P any] struct {
	id     naughty
	player P
}

// MCTS is a search tree. The nodes are kept in an arena and refer to one another by index, so there is not much pointer chasing.
//
// A tree is not safe for concurrent use. Independent trees share nothing.
type MCTS[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]] struct {
	Config

	// memory related fields
	nodes    []Node[S, M, O, P]
	children [][]naughty
	freelist []naughty
	policies []Policy

	root naughty

	// scratch space
	path  []step[P]
	stack []naughty

	lumberjack
}

// New creates a tree rooted at the given state, scored by UCT.
func New[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]](state S) *MCTS[S, M, O, P] {
	return NewWithConfig[S, M, O, P](state, DefaultConfig())
}

// NewWithConfig creates a tree rooted at the given state. It panics if the config is not valid.
func NewWithConfig[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]](state S, conf Config) *MCTS[S, M, O, P] {
	if !conf.IsValid() {
		panic("MCTS Config is not valid. Unable to proceed")
	}
	retVal := &MCTS[S, M, O, P]{
		Config:     conf,
		nodes:      make([]Node[S, M, O, P], 0, conf.Capacity),
		children:   make([][]naughty, 0, conf.Capacity),
		lumberjack: makeLumberJack(),
	}
	retVal.Reset(state)
	return retVal
}

// Reset throws away every node and starts over from the given state. The arena's memory is kept,
// as is the policy of the current root.
func (t *MCTS[S, M, O, P]) Reset(state S) {
	p := t.Config.Policy
	if len(t.nodes) > 0 {
		p = t.policies[t.nodes[t.root].policy]
	}

	t.freelist = t.freelist[:0]
	for i := range t.nodes {
		t.nodes[i] = Node[S, M, O, P]{}
	}
	for i := range t.children {
		t.children[i] = t.children[i][:0]
	}
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.policies = append(t.policies[:0], p)

	t.root = t.alloc()
	root := t.nodeFromNaughty(t.root)
	root.state = state
	root.status = Active
	t.log("RESET. Root %v", root)
}

// Configure sets the policy of the root. Children created from now on inherit it; existing children keep theirs.
// A nil policy restores UCT.
func (t *MCTS[S, M, O, P]) Configure(p Policy) {
	if p == nil {
		p = UCT
	}
	t.policies = append(t.policies, p)
	t.nodeFromNaughty(t.root).policy = len(t.policies) - 1
}

// State returns the game state at the root.
func (t *MCTS[S, M, O, P]) State() S { return t.nodes[t.root].state }

// Root returns the root node.
func (t *MCTS[S, M, O, P]) Root() *Node[S, M, O, P] { return t.nodeFromNaughty(t.root) }

// Nodes returns the number of live nodes.
func (t *MCTS[S, M, O, P]) Nodes() int { return len(t.nodes) - len(t.freelist) }

// nodeFromNaughty gets the node given the pointer.
func (t *MCTS[S, M, O, P]) nodeFromNaughty(ptr naughty) *Node[S, M, O, P] { return &t.nodes[int(ptr)] }

// derive creates a child of parent by applying the move.
func (t *MCTS[S, M, O, P]) derive(parent naughty, move M) naughty {
	kid := t.alloc()
	p := t.nodeFromNaughty(parent) // alloc may have moved the arena
	N := t.nodeFromNaughty(kid)
	N.state = p.state.Apply(move)
	N.move = move
	N.hasMove = true
	N.policy = p.policy
	N.status = Active
	t.children[parent] = append(t.children[parent], kid)
	return kid
}

// alloc tries to get a node from the free list. If none is found a new node is allocated into the master arena
func (t *MCTS[S, M, O, P]) alloc() naughty {
	l := len(t.freelist)
	if l == 0 {
		n := naughty(len(t.nodes))
		t.nodes = append(t.nodes, Node[S, M, O, P]{id: n, tree: t})
		t.children = append(t.children, nil)
		return n
	}

	n := t.freelist[l-1]
	t.freelist = t.freelist[:l-1]
	t.nodes[n] = Node[S, M, O, P]{id: n, tree: t}
	return n
}

// free puts the node back into the freelist. The children are not freed.
func (t *MCTS[S, M, O, P]) free(n naughty) {
	t.children[n] = t.children[n][:0]
	t.nodes[n] = Node[S, M, O, P]{id: n, tree: t} // drop the state so it can be collected
	t.freelist = append(t.freelist, n)
}

// freeSubtree frees the node and all of its descendants.
func (t *MCTS[S, M, O, P]) freeSubtree(root naughty) {
	stack := append(t.stack[:0], root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, t.children[n]...)
		t.free(n)
	}
	t.stack = stack[:0]
}

// cleanup frees the old root and every child of it other than the new root, along with their subtrees.
func (t *MCTS[S, M, O, P]) cleanup(oldRoot, newRoot naughty) {
	for _, kid := range t.children[oldRoot] {
		if kid != newRoot {
			t.freeSubtree(kid)
		}
	}
	t.free(oldRoot)
}
