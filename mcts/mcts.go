// Package mcts is a Monte Carlo tree search over any game.State, scored by UCT by default.
//
// The search is full-tree: every iteration keeps expanding and selecting until it reaches a state that has ended,
// and the true outcome of that state is backpropagated. There is no random playout phase.
package mcts

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrIllegalMove is returned when the root is advanced by a move that is not one of its children.
var ErrIllegalMove = errors.New("the state is not a child of the root node")

// Policy scores a child for selection given the child's accumulated wins, its visits and the visits of its parent.
//
// A Policy must be a pure function. The search is only deterministic when the policy is.
type Policy func(wins, visits, parentVisits float32) float32

var sqrt2 = math32.Sqrt(2)

// UCT is the default policy:
//	w/n + sqrt(2) * sqrt(ln(N)/n)
func UCT(wins, visits, parentVisits float32) float32 {
	return wins/visits + sqrt2*math32.Sqrt(math32.Log(parentVisits)/visits)
}

// UCB1 creates an upper confidence bound policy with c as the exploration constant. UCB1(sqrt(2)) is UCT.
func UCB1(c float32) Policy {
	return func(wins, visits, parentVisits float32) float32 {
		return wins/visits + c*math32.Sqrt(math32.Log(parentVisits)/visits)
	}
}

// Greedy only exploits. It picks the child with the best average reward.
func Greedy(wins, visits, parentVisits float32) float32 { return wins / visits }

// Config is the structure to configure a tree
type Config struct {
	Policy   Policy // policy of the root. Children inherit the policy of their parents when they are created.
	Capacity int    // number of nodes to preallocate
}

func DefaultConfig() Config {
	return Config{
		Policy:   UCT,
		Capacity: 4096,
	}
}

func (c Config) IsValid() bool {
	return c.Policy != nil && c.Capacity >= 0
}
