package c4

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
)

var (
	_ game.State[*Game, game.Single, game.Outcome, game.Colour] = &Game{}
)

// Game is a game of Connect Four (or Connect N). A move is the index of the column a piece is dropped into.
//
// A Game is never modified once created.
type Game struct {
	b          *Board
	nextToMove game.Colour
	moveCount  int
	lastMove   game.Single

	ended   bool
	outcome game.Outcome
}

// New creates a new game with a board of (rows,cols) and N to win (connect4 being 4 to win). Black moves first.
func New(rows, cols, N int) *Game {
	return &Game{
		b:          newBoard(rows, cols, N),
		nextToMove: game.Black,
		lastMove:   -1,
	}
}

// Standard creates the usual 6x7 Connect Four.
func Standard() *Game { return New(6, 7, 4) }

func (g *Game) BoardSize() (int, int) { return g.b.shape() }

// Board returns a copy of the board in row major order.
func (g *Game) Board() []game.Colour {
	raw := g.b.raw()
	retVal := make([]game.Colour, len(raw))
	copy(retVal, raw)
	return retVal
}

func (g *Game) ToMove() game.Colour { return g.nextToMove }

func (g *Game) LastMove() game.Single { return g.lastMove }

func (g *Game) MoveNumber() int { return g.moveCount }

func (g *Game) Outcome() (game.Outcome, bool) { return g.outcome, g.ended }

func (g *Game) Ended() (bool, game.Colour) { return g.ended, g.outcome.Winner }

// LegalMoves returns every column that is not full, from left to right.
func (g *Game) LegalMoves() []game.Single {
	if g.ended {
		return nil
	}
	_, cols := g.b.shape()
	retVal := make([]game.Single, 0, cols)
	for col := 0; col < cols; col++ {
		if g.b.it[0][col] == game.None {
			retVal = append(retVal, game.Single(col))
		}
	}
	return retVal
}

func (g *Game) Check(m game.Single) bool {
	if g.ended {
		return false
	}
	_, err := g.b.landing(int(m))
	return err == nil
}

// Drop returns the game after the player to move drops a piece into column m.
func (g *Game) Drop(m game.Single) (*Game, error) {
	if g.ended {
		return nil, errors.Errorf("Game has ended. %v", g.outcome)
	}
	b := g.b.clone()
	if err := b.drop(int(m), g.nextToMove); err != nil {
		return nil, err
	}
	retVal := &Game{
		b:          b,
		nextToMove: g.nextToMove.Opponent(),
		moveCount:  g.moveCount + 1,
		lastMove:   m,
	}
	retVal.judge()
	return retVal, nil
}

// Apply is Drop for moves known to be legal. It panics otherwise.
func (g *Game) Apply(m game.Single) *Game {
	retVal, err := g.Drop(m)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return retVal
}

func (g *Game) Eq(other *Game) bool {
	if g.nextToMove != other.nextToMove || g.moveCount != other.moveCount {
		return false
	}
	return g.b.data.Eq(other.b.data)
}

func (g *Game) judge() {
	if winner := g.b.checkWin(); winner != game.None {
		g.ended, g.outcome = true, game.Outcome{Winner: winner}
		return
	}
	if g.b.isFull() {
		g.ended, g.outcome = true, game.Draw
		return
	}
	g.ended, g.outcome = false, game.Outcome{}
}

func (g *Game) Format(s fmt.State, c rune) { g.b.Format(s, c) }

// Notation converts columns to and from their letters. "a" is the leftmost column.
type Notation struct{ Cols int }

func (g *Game) Notation() Notation {
	_, cols := g.b.shape()
	return Notation{Cols: cols}
}

func (n Notation) Format(m game.Single) string { return string(rune('a' + int(m))) }

func (n Notation) Parse(a string) (game.Single, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	var col int
	switch {
	case len(a) == 1 && a[0] >= 'a' && a[0] <= 'z':
		col = int(a[0] - 'a')
	default:
		i, err := strconv.Atoi(a)
		if err != nil {
			return -1, errors.Errorf("Unable to parse column %q", a)
		}
		col = i - 1
	}
	if col < 0 || col >= n.Cols {
		return -1, errors.Errorf("Column %q is off the board", a)
	}
	return game.Single(col), nil
}
