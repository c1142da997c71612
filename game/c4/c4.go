package c4

import (
	"fmt"

	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

// ErrColumnFull is returned when a piece is dropped into a full column.
var ErrColumnFull = errors.New("Selected column is full")

type Board struct {
	data *tensor.Dense
	it   [][]game.Colour
	n    int // how many to be considered a win?
}

func newBoard(rows, cols, n int) *Board {
	backing := make([]game.Colour, rows*cols)
	data := tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
	iter, err := native.Matrix(data)
	if err != nil {
		panic(err)
	}
	it := iter.([][]game.Colour)
	return &Board{
		data: data,
		it:   it,
		n:    n,
	}
}

func (b *Board) Format(s fmt.State, c rune) {
	for _, row := range b.it {
		fmt.Fprint(s, "⎢ ")
		for _, col := range row {
			fmt.Fprintf(s, "%s ", col)
		}
		fmt.Fprint(s, "⎥\n")
	}
}

func (b *Board) shape() (rows, cols int) {
	sh := b.data.Shape()
	return sh[0], sh[1]
}

func (b *Board) raw() []game.Colour { return b.data.Data().([]game.Colour) }

// drop places a piece of colour c in the given column.
func (b *Board) drop(col int, c game.Colour) error {
	row, err := b.landing(col)
	if err != nil {
		return err
	}
	b.it[row][col] = c
	return nil
}

// landing finds the row a piece dropped in col would land on.
func (b *Board) landing(col int) (row int, err error) {
	_, cols := b.shape()
	if col < 0 || col >= cols {
		return -1, errors.Errorf("Column %d is off the board", col)
	}
	for row = len(b.it) - 1; row >= 0; row-- {
		if b.it[row][col] == game.None {
			return row, nil
		}
	}
	return -1, errors.Wrapf(ErrColumnFull, "column %d", col)
}

func (b *Board) clone() *Board {
	rows, cols := b.shape()
	b2 := newBoard(rows, cols, b.n)
	copy(b2.raw(), b.raw())
	return b2
}

func (b *Board) isFull() bool {
	for _, c := range b.raw() {
		if c == game.None {
			return false
		}
	}
	return true
}

func (b *Board) checkWin() game.Colour {
	rows, cols := b.shape()
	if winner := b.checkLine(rows, cols, 1, 0); winner != game.None {
		return winner
	}
	if winner := b.checkLine(rows, cols, 0, 1); winner != game.None {
		return winner
	}
	if winner := b.checkLine(rows, cols, 1, -1); winner != game.None {
		return winner
	}
	return b.checkLine(rows, cols, 1, 1)
}

// checkLine looks for n pieces of the same colour in a line, starting anywhere and stepping by (dy, dx).
func (b *Board) checkLine(rows, cols, dy, dx int) game.Colour {
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			c := b.it[y][x]
			if c == game.None {
				continue
			}
			winning := true
			for i := 1; i < b.n; i++ {
				yy, xx := y+i*dy, x+i*dx
				if yy < 0 || yy >= rows || xx < 0 || xx >= cols || b.it[yy][xx] != c {
					winning = false
					break
				}
			}
			if winning {
				return c
			}
		}
	}
	return game.None
}
