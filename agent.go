package uct

import (
	"sync"

	"github.com/gorgonia/uct/game"
	"github.com/gorgonia/uct/mcts"
)

// An Agent is a player: a search tree and how long it may think for.
type Agent[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]] struct {
	MCTS   *mcts.MCTS[S, M, O, P]
	Player P // the side the agent plays in the current game. Set when the agent first moves.
	Budget int

	// Statistics
	Wins float32
	Loss float32
	Draw float32
	sync.Mutex

	name  string
	moved bool
}

func newAgent[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]](g S, conf AgentConfig) *Agent[S, M, O, P] {
	return &Agent[S, M, O, P]{
		MCTS:   mcts.NewWithConfig[S, M, O, P](g, conf.mctsConfig()),
		Budget: conf.Budget,
		name:   conf.Name,
	}
}

func (a *Agent[S, M, O, P]) Name() string { return a.name }

// Search searches the agent's current position for its budget and returns the suggested move.
func (a *Agent[S, M, O, P]) Search() (M, bool) {
	if !a.moved {
		a.Player = a.MCTS.State().ToMove()
		a.moved = true
	}
	return a.MCTS.Search(a.Budget)
}

// Observe tells the agent a move was made, by it or by its opponent.
func (a *Agent[S, M, O, P]) Observe(move M) error { return a.MCTS.AdvanceRoot(move) }

// reset starts a new game from g.
func (a *Agent[S, M, O, P]) reset(g S) {
	a.MCTS.Reset(g)
	a.moved = false
}

// score records the outcome of a game. reward is the agent's reward for the outcome.
func (a *Agent[S, M, O, P]) score(reward float32) {
	a.Lock()
	switch {
	case reward >= 1:
		a.Wins++
	case reward <= 0:
		a.Loss++
	default:
		a.Draw++
	}
	a.Unlock()
}

func (a *Agent[S, M, O, P]) resetStats() {
	a.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.Unlock()
}
