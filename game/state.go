package game

import "fmt"

// Player is anything that can score a terminal outcome.
//
// Rewards are conventionally within [0, 1]. The UCT exploration term assumes as much.
type Player[O any] interface {
	comparable
	RewardFor(outcome O) float32
}

// State is a snapshot of a sequential, perfect information, turn based game.
//
// A State is treated as immutable. Apply must return a new value and leave the receiver untouched,
// and it must be deterministic for a given (state, move) pair.
type State[S any, M comparable, O comparable, P Player[O]] interface {
	ToMove() P          // returns the player to move (terminology is a bit confusing - this means the current player)
	Outcome() (O, bool) // has the game ended? if yes, what is the outcome?
	LegalMoves() []M    // all legal moves in a stable order. Must be non-empty for any state that has not ended.
	Apply(m M) S        // returns the state after m is played.
}

// MetaState describes a game being played, as seen by whatever is recording it.
type MetaState interface {
	Name() string           // name of the game
	GameNumber() int        // which game is this in a series
	MoveNumber() int        // count of moves made so far
	Board() string          // rendered board
	Result() (bool, string) // has the game ended? if yes, a description of the outcome
}

// Outcome is the result of a two player board game. A zero Winner is a draw.
type Outcome struct {
	Winner Colour
}

// Draw is the outcome of a game with no winner.
var Draw = Outcome{Winner: None}

func (o Outcome) IsDraw() bool { return o.Winner == None }

func (o Outcome) Format(s fmt.State, c rune) {
	if o.IsDraw() {
		fmt.Fprint(s, "Draw")
		return
	}
	fmt.Fprintf(s, "%v wins", o.Winner)
}
