package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Single represents a coordinate as a single number, utilized in a rowmajor fashion.
//		- 0 represents the top left
//		- 2 represents the top right of a 3x3 board
//		- 3 represents (1, 0) of a 3x3 board
type Single int32

// Coord represents a (row, col) coordinate.
//
// The Coord uses a standard computer cartesian coordinates
//		- (0, 0) represents the top left
//		- (2, 2) represents the bottom right of a 3x3 board
type Coord struct {
	X, Y int16
}

func (c Coord) Eq(other Coord) bool { return c.X == other.X && c.Y == other.Y }

// Notation converts between Singles and their vertex text on a Rows x Cols board.
//
// A vertex is a column letter followed by a 1-based row number, counted from the top: "a1" is the top left.
type Notation struct {
	Rows, Cols int
}

// Ltoi converts a coordinate to a Single.
func (n Notation) Ltoi(c Coord) Single { return Single(int(c.X)*n.Cols + int(c.Y)) }

// Itol converts a Single to a coordinate.
func (n Notation) Itol(s Single) Coord {
	return Coord{X: int16(int(s) / n.Cols), Y: int16(int(s) % n.Cols)}
}

// Format returns the vertex text of a move.
func (n Notation) Format(s Single) string {
	c := n.Itol(s)
	return fmt.Sprintf("%c%d", 'a'+rune(c.Y), c.X+1)
}

// Parse parses vertex text such as "b3" into a Single.
func (n Notation) Parse(a string) (Single, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	if len(a) < 2 {
		return -1, errors.Errorf("Unable to parse vertex %q", a)
	}
	col := int(a[0]) - 'a'
	row, err := strconv.Atoi(a[1:])
	if err != nil {
		return -1, errors.WithMessagef(err, "Unable to parse row of vertex %q", a)
	}
	row--
	if col < 0 || col >= n.Cols || row < 0 || row >= n.Rows {
		return -1, errors.Errorf("Vertex %q is off the %dx%d board", a, n.Rows, n.Cols)
	}
	return n.Ltoi(Coord{X: int16(row), Y: int16(col)}), nil
}
