package mcts

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

/*
Here lies the majority of the MCTS search code, while node.go and tree.go handles the data structure stuff.
*/

// Search runs n iterations from the root and returns the move of the most visited child of the root.
// Statistics accumulate across calls: Search(a) followed by Search(b) is the same as Search(a+b).
//
// ok is false if the root has no children, which happens when n is 0 on a fresh tree or when the game has ended.
func (t *MCTS[S, M, O, P]) Search(n int) (retVal M, ok bool) {
	player := t.State().ToMove()
	t.log("SEARCH. %d iterations. Player %v", n, player)
	for i := 0; i < n; i++ {
		t.simulate(player)
	}

	best := t.mostVisited(t.root)
	if !best.isValid() {
		t.log("No children. Root %v", t.nodeFromNaughty(t.root))
		return retVal, false
	}
	node := t.nodeFromNaughty(best)
	t.log("Nodes: %v. Best: %v", t.Nodes(), node)
	return node.move, true
}

// AdvanceRoot makes the child reached by the given move the new root. Every other child of the old root is freed,
// along with the old root itself. The root is expanded first, so any legal move may be used, explored or not.
//
// If the move is not legal, an error wrapping ErrIllegalMove is returned and the tree is left as is.
func (t *MCTS[S, M, O, P]) AdvanceRoot(move M) error {
	t.expand(t.root)
	newRoot := t.findChild(t.root, move)
	if !newRoot.isValid() {
		return errors.Wrapf(ErrIllegalMove, "move %v", move)
	}
	oldRoot := t.root
	t.root = newRoot
	t.cleanup(oldRoot, newRoot)
	t.log("ADVANCE. Move %v. New root %v. Nodes %d", move, t.nodeFromNaughty(newRoot), t.Nodes())
	return nil
}

// Distribution returns the share of the root's visits that went to each of its children, in move order.
func (t *MCTS[S, M, O, P]) Distribution() []float32 {
	children := t.children[t.root]
	retVal := make([]float32, len(children))
	for i, kid := range children {
		retVal[i] = t.nodeFromNaughty(kid).visits
	}
	if sum := vecf32.Sum(retVal); sum > 0 {
		vecf32.Scale(retVal, 1/sum)
	}
	return retVal
}

// PV returns the principal variation: the line of play found by following the most visited child from the root.
func (t *MCTS[S, M, O, P]) PV() (retVal []M) {
	for n := t.mostVisited(t.root); n.isValid(); n = t.mostVisited(n) {
		node := t.nodeFromNaughty(n)
		if node.visits == 0 {
			break
		}
		retVal = append(retVal, node.move)
	}
	return retVal
}

// simulate is one iteration of the search. The textbook MCTS pipeline is
//	SELECT, EXPAND, SIMULATE, BACKPROPAGATE.
//
// Here there is no separate simulation: the tree is expanded all the way down to a state that has ended. So the pipeline is
//	EXPAND and SELECT until the game ends, then BACKPROPAGATE the outcome along the path.
//
// Each node on the path accumulates the rewards of the player who moved into it. The root accumulates the rewards of
// its own mover.
func (t *MCTS[S, M, O, P]) simulate(perspective P) (outcome O) {
	path := t.path[:0]
	current, player := t.root, perspective
	for {
		path = append(path, step[P]{id: current, player: player})
		state := t.nodeFromNaughty(current).state
		var ended bool
		if outcome, ended = state.Outcome(); ended {
			break
		}
		t.expand(current)
		player = state.ToMove()
		current = t.selectChild(current)
	}

	for i := len(path) - 1; i >= 0; i-- {
		t.backpropagate(path[i].id, path[i].player, outcome)
	}
	t.path = path[:0]
	return outcome
}

// expand creates one child per legal move, in the order the moves are given. It does nothing if the node already has children.
func (t *MCTS[S, M, O, P]) expand(of naughty) {
	if len(t.children[of]) > 0 {
		return
	}
	moves := t.nodeFromNaughty(of).state.LegalMoves()
	for _, m := range moves {
		t.derive(of, m)
	}
}

// selectChild picks the first child that has never been visited. If all have been visited, the child with the highest score
// under the node's policy is picked. Ties go to the earlier child.
func (t *MCTS[S, M, O, P]) selectChild(of naughty) naughty {
	children := t.children[of]
	if len(children) == 0 {
		panic("Cannot select a child of a node that has no children. The game has not ended but has no legal moves")
	}
	for _, kid := range children {
		if t.nodeFromNaughty(kid).visits == 0 {
			return kid
		}
	}

	n := t.nodeFromNaughty(of)
	policy := t.policies[n.policy]
	parentVisits := n.visits

	best := nilNode
	bestValue := math32.Inf(-1)
	for _, kid := range children {
		child := t.nodeFromNaughty(kid)
		if v := policy(child.wins, child.visits, parentVisits); v > bestValue {
			bestValue = v
			best = kid
		}
	}
	if best == nilNode {
		panic("Cannot return nil. The policy did not score any child above -Inf")
	}
	return best
}

// mostVisited returns the child with the most visits. Ties go to the earlier child. nilNode is returned if there are no children.
func (t *MCTS[S, M, O, P]) mostVisited(of naughty) naughty {
	best := nilNode
	bestVisits := math32.Inf(-1)
	for _, kid := range t.children[of] {
		if v := t.nodeFromNaughty(kid).visits; v > bestVisits {
			bestVisits = v
			best = kid
		}
	}
	return best
}

func (t *MCTS[S, M, O, P]) backpropagate(n naughty, player P, outcome O) {
	node := t.nodeFromNaughty(n)
	node.visits++
	node.wins += player.RewardFor(outcome)
}

// findChild finds the first child that has the wanted move
func (t *MCTS[S, M, O, P]) findChild(of naughty, move M) naughty {
	for _, kid := range t.children[of] {
		if t.nodeFromNaughty(kid).move == move {
			return kid
		}
	}
	return nilNode
}
