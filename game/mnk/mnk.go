package mnk

import (
	"fmt"

	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
)

const (
	Cross  = game.Black
	Nought = game.White
)

var _ game.State[*MNK, game.Single, game.Outcome, game.Colour] = &MNK{}

// ErrInvalidPlace is returned when a stone is placed off the board or on an occupied cell.
var ErrInvalidPlace = errors.New("invalid place")

// MNK is a representation of M,N,K games - a game is played on a MxN board. K moves to win.
//
// An MNK is never modified once created. Apply and Place return a new game.
type MNK struct {
	board   []game.Colour
	m, n, k int

	nextToMove game.Colour
	moveNumber int
	lastMove   game.Single

	ended   bool
	outcome game.Outcome
}

// New creates a new MNK game. Cross moves first.
func New(m, n, k int) *MNK {
	return &MNK{
		board:      make([]game.Colour, m*n),
		m:          m,
		n:          n,
		k:          k,
		nextToMove: Cross,
		lastMove:   -1,
	}
}

// TicTacToe creates a new MNK game for Tic Tac Toe
func TicTacToe() *MNK { return New(3, 3, 3) }

func (g *MNK) Format(s fmt.State, c rune) {
	for i, c := range g.board {
		if i%g.n == 0 {
			fmt.Fprint(s, "⎢ ")
		}
		fmt.Fprintf(s, "%s ", c)
		if (i+1)%g.n == 0 && i != 0 {
			fmt.Fprint(s, "⎥\n")
		}
	}
}

func (g *MNK) BoardSize() (int, int) { return g.m, g.n }

// Board returns a copy of the board.
func (g *MNK) Board() []game.Colour {
	retVal := make([]game.Colour, len(g.board))
	copy(retVal, g.board)
	return retVal
}

// Notation returns the vertex notation of moves on this board.
func (g *MNK) Notation() game.Notation { return game.Notation{Rows: g.m, Cols: g.n} }

func (g *MNK) ActionSpace() int { return g.m * g.n }

func (g *MNK) ToMove() game.Colour { return g.nextToMove }

// LastMove returns the last move made, or -1 if no moves have been made.
func (g *MNK) LastMove() game.Single { return g.lastMove }

func (g *MNK) MoveNumber() int { return g.moveNumber }

// Outcome returns the outcome of the game if it has ended.
func (g *MNK) Outcome() (game.Outcome, bool) { return g.outcome, g.ended }

// Ended checks if the game has ended. If it has, who is the winner?
func (g *MNK) Ended() (ended bool, winner game.Colour) { return g.ended, g.outcome.Winner }

// LegalMoves returns the empty cells in row major order. A game that has ended has no legal moves.
func (g *MNK) LegalMoves() []game.Single {
	if g.ended {
		return nil
	}
	retVal := make([]game.Single, 0, len(g.board)-g.moveNumber)
	for i, c := range g.board {
		if c == game.None {
			retVal = append(retVal, game.Single(i))
		}
	}
	return retVal
}

// Check checks if the placement is legal.
func (g *MNK) Check(m game.Single) bool {
	if g.ended {
		return false
	}
	if m < 0 || int(m) >= len(g.board) {
		return false
	}
	return g.board[int(m)] == game.None
}

// Place returns the game after the player to move places a stone at m.
func (g *MNK) Place(m game.Single) (*MNK, error) {
	if !g.Check(m) {
		return nil, errors.Wrapf(ErrInvalidPlace, "%v cannot play at %d", g.nextToMove, m)
	}
	retVal := g.clone()
	retVal.board[int(m)] = g.nextToMove
	retVal.nextToMove = g.nextToMove.Opponent()
	retVal.moveNumber++
	retVal.lastMove = m
	retVal.judge()
	return retVal, nil
}

// Apply is Place for moves known to be legal. It panics otherwise.
func (g *MNK) Apply(m game.Single) *MNK {
	retVal, err := g.Place(m)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return retVal
}

// Eq returns true if both games have the same board and the same player to move.
func (g *MNK) Eq(other *MNK) bool {
	if g.m != other.m || g.n != other.n || g.k != other.k {
		return false
	}
	if g.nextToMove != other.nextToMove {
		return false
	}
	for i := range g.board {
		if g.board[i] != other.board[i] {
			return false
		}
	}
	return true
}

func (g *MNK) clone() *MNK {
	retVal := *g
	retVal.board = make([]game.Colour, len(g.board))
	copy(retVal.board, g.board)
	return &retVal
}

// judge updates the cached outcome from the board.
func (g *MNK) judge() {
	switch {
	case g.isWinner(Cross):
		g.ended, g.outcome = true, game.Outcome{Winner: Cross}
	case g.isWinner(Nought):
		g.ended, g.outcome = true, game.Outcome{Winner: Nought}
	case g.isFull():
		g.ended, g.outcome = true, game.Draw
	default:
		g.ended, g.outcome = false, game.Outcome{}
	}
}

func (g *MNK) isFull() bool {
	for _, c := range g.board {
		if c == game.None {
			return false
		}
	}
	return true
}

// directions to look for k in a row: rightwards, downwards, down-right and down-left.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (g *MNK) isWinner(p game.Colour) bool {
	for i := 0; i < g.m; i++ {
		for j := 0; j < g.n; j++ {
			if g.board[i*g.n+j] != p {
				continue
			}
			for _, d := range directions {
				if g.run(p, i, j, d[0], d[1]) >= g.k {
					return true
				}
			}
		}
	}
	return false
}

// run counts the stones of p from (i, j) stepping by (di, dj).
func (g *MNK) run(p game.Colour, i, j, di, dj int) (count int) {
	for i >= 0 && i < g.m && j >= 0 && j < g.n && g.board[i*g.n+j] == p {
		count++
		i += di
		j += dj
	}
	return count
}
